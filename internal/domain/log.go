package domain

import "strings"

// 维修日志类型中的特殊标记（按子串匹配）
const (
	LogMarkFaultRepair    = "故障维修" // 触发设备状态 → 维修中
	LogMarkRepairComplete = "维修完成" // 触发设备状态 → 在用
)

// Log 维修/保养日志记录
type Log struct {
	ID      int    `json:"id"`    // 唯一正整数，单调分配
	EqID    int    `json:"eq_id"` // 关联设备 ID
	LogType string `json:"log_type"`
	LogDate string `json:"log_date"` // YYYY-MM-DD
	// Operator 仅为自由文本，不是用户外键；操作人被删除后日志保留
	Operator string `json:"operator"`
	Details  string `json:"details"`
}

// DerivedStatus 根据日志类型推导设备状态
// 这是系统唯一的自动状态迁移规则：无条件覆盖当前状态（包括报废，沿用既有行为）
func DerivedStatus(logType string) (EquipmentStatus, bool) {
	if strings.Contains(logType, LogMarkFaultRepair) {
		return StatusRepairing, true
	}
	if strings.Contains(logType, LogMarkRepairComplete) {
		return StatusInUse, true
	}
	return "", false
}

// NextLogID 计算下一个日志 ID：max(现有 ID)+1，空集合时为 1
func NextLogID(logs []Log) int {
	maxID := 0
	for _, l := range logs {
		if l.ID > maxID {
			maxID = l.ID
		}
	}
	return maxID + 1
}
