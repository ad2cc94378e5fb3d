package domain

// EquipmentStatus 设备状态（状态值沿用台账原始中文标识）
type EquipmentStatus string

const (
	StatusInUse     EquipmentStatus = "在用"
	StatusStandby   EquipmentStatus = "备用"
	StatusRepairing EquipmentStatus = "维修中"
	StatusScrapped  EquipmentStatus = "报废"
)

// EquipmentCategory 设备类别
type EquipmentCategory string

const (
	CategoryMechanical EquipmentCategory = "mechanical" // 机械设备
	CategoryElectrical EquipmentCategory = "electrical" // 电气设备
)

// MechanicalSpec 机械设备专有字段（内嵌后在 JSON 中与公共字段平铺）
type MechanicalSpec struct {
	MotorModel   string `json:"motor_model,omitempty"`   // 电机型号
	PowerRating  string `json:"power_rating,omitempty"`  // 功率
	MAExCode     string `json:"ma_ex_code,omitempty"`    // 煤安/防爆证号
	ReducerModel string `json:"reducer_model,omitempty"` // 减速器型号
}

// ElectricalSpec 电气设备专有字段
type ElectricalSpec struct {
	Location string `json:"location,omitempty"` // 安装地点
	Usage    string `json:"usage,omitempty"`    // 用途
}

// Equipment 设备台账记录
// 机械/电气两类共用同一记录形状，类别专有字段按内嵌结构分组；
// RawCategory 为空的历史数据视为机械设备（见 Category()）
type Equipment struct {
	ID           int             `json:"id"` // 唯一正整数，单调分配
	Name         string          `json:"name"`
	Model        string          `json:"model"`
	SerialNumber string          `json:"serial_number"`
	Status       EquipmentStatus `json:"status"`
	RawCategory  EquipmentCategory `json:"category,omitempty"`
	IsSpecial    bool            `json:"is_special"` // 特种设备

	Team           string `json:"team,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty"`
	ProductionDate string `json:"production_date,omitempty"` // YYYY-MM-DD
	CommissionDate string `json:"commission_date,omitempty"`

	// 定期检验
	NextInspectionDate string `json:"next_inspection_date,omitempty"`
	LastInspectionDate string `json:"last_inspection_date,omitempty"`
	InspectionCycle    int    `json:"inspection_cycle,omitempty"` // 月
	Inspector          string `json:"inspector,omitempty"`
	SpecialLicense     string `json:"special_license,omitempty"` // 特种设备使用证

	Notes string `json:"notes,omitempty"`

	MechanicalSpec
	ElectricalSpec
}

// Category 返回设备类别，历史数据未打标签时默认为机械设备
func (e *Equipment) Category() EquipmentCategory {
	if e.RawCategory == "" {
		return CategoryMechanical
	}
	return e.RawCategory
}

// NextEquipmentID 计算下一个设备 ID：max(现有 ID)+1，空集合时为 1
func NextEquipmentID(eqs []Equipment) int {
	maxID := 0
	for _, e := range eqs {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	return maxID + 1
}
