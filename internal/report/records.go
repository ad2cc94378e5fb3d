package report

import (
	"strconv"

	"mineq-data/internal/domain"
)

// EquipmentHeaders 设备表列名（与存储字段名一致，导出导入互逆）
var EquipmentHeaders = []string{
	"id", "name", "model", "serial_number", "status", "category", "is_special",
	"team", "manufacturer", "production_date", "commission_date",
	"next_inspection_date", "last_inspection_date", "inspection_cycle", "inspector",
	"special_license", "notes",
	"motor_model", "power_rating", "ma_ex_code", "reducer_model",
	"location", "usage",
}

// LogHeaders 日志表列名
var LogHeaders = []string{"id", "eq_id", "log_type", "log_date", "operator", "details"}

// EquipmentRow 设备记录转一行单元格
func EquipmentRow(e *domain.Equipment) []string {
	return []string{
		strconv.Itoa(e.ID), e.Name, e.Model, e.SerialNumber, string(e.Status), string(e.RawCategory),
		strconv.FormatBool(e.IsSpecial),
		e.Team, e.Manufacturer, e.ProductionDate, e.CommissionDate,
		e.NextInspectionDate, e.LastInspectionDate, strconv.Itoa(e.InspectionCycle), e.Inspector,
		e.SpecialLicense, e.Notes,
		e.MotorModel, e.PowerRating, e.MAExCode, e.ReducerModel,
		e.Location, e.Usage,
	}
}

// LogRow 日志记录转一行单元格
func LogRow(l *domain.Log) []string {
	return []string{
		strconv.Itoa(l.ID), strconv.Itoa(l.EqID), l.LogType, l.LogDate, l.Operator, l.Details,
	}
}

// EquipmentFromRecord 从解析后的表格记录还原设备
// 缺失字段取零值，状态缺失默认在用；不整批拒绝（导入引擎契约）
func EquipmentFromRecord(rec map[string]any) domain.Equipment {
	e := domain.Equipment{
		ID:           intField(rec, "id"),
		Name:         strField(rec, "name"),
		Model:        strField(rec, "model"),
		SerialNumber: strField(rec, "serial_number"),
		Status:       domain.EquipmentStatus(strField(rec, "status")),
		RawCategory:  domain.EquipmentCategory(strField(rec, "category")),
		IsSpecial:    boolField(rec, "is_special"),

		Team:           strField(rec, "team"),
		Manufacturer:   strField(rec, "manufacturer"),
		ProductionDate: strField(rec, "production_date"),
		CommissionDate: strField(rec, "commission_date"),

		NextInspectionDate: strField(rec, "next_inspection_date"),
		LastInspectionDate: strField(rec, "last_inspection_date"),
		InspectionCycle:    intField(rec, "inspection_cycle"),
		Inspector:          strField(rec, "inspector"),
		SpecialLicense:     strField(rec, "special_license"),

		Notes: strField(rec, "notes"),
	}
	e.MotorModel = strField(rec, "motor_model")
	e.PowerRating = strField(rec, "power_rating")
	e.MAExCode = strField(rec, "ma_ex_code")
	e.ReducerModel = strField(rec, "reducer_model")
	e.Location = strField(rec, "location")
	e.Usage = strField(rec, "usage")

	if e.Status == "" {
		e.Status = domain.StatusInUse
	}
	return e
}

// LogFromRecord 从解析后的表格记录还原日志
func LogFromRecord(rec map[string]any) domain.Log {
	return domain.Log{
		ID:       intField(rec, "id"),
		EqID:     intField(rec, "eq_id"),
		LogType:  strField(rec, "log_type"),
		LogDate:  strField(rec, "log_date"),
		Operator: strField(rec, "operator"),
		Details:  strField(rec, "details"),
	}
}

func strField(rec map[string]any, key string) string {
	switch v := rec[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func intField(rec map[string]any, key string) int {
	switch v := rec[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

func boolField(rec map[string]any, key string) bool {
	switch v := rec[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
