package report

import (
	"fmt"

	"mineq-data/internal/domain"

	"github.com/xuri/excelize/v2"
)

// equipmentSheetHeaders 设备台账导出表头（人读列名）
var equipmentSheetHeaders = []string{
	"编号", "设备名称", "型号", "出厂编号", "状态", "类别", "特种设备",
	"使用队组", "生产厂家", "出厂日期", "投用日期", "下次检验日期", "备注",
}

// inspectionSheetHeaders 检验到期台账表头
var inspectionSheetHeaders = []string{
	"编号", "设备名称", "型号", "使用队组", "检验周期(月)", "上次检验", "下次检验", "剩余天数", "检验单位",
}

// InspectionRow 检验到期台账条目
type InspectionRow struct {
	Equipment domain.Equipment
	DaysLeft  int
}

// ExportEquipmentLedger 生成设备台账 Excel
func ExportEquipmentLedger(eqs []domain.Equipment) ([]byte, error) {
	rows := make([][]any, 0, len(eqs))
	for i := range eqs {
		e := &eqs[i]
		category := "机械"
		if e.Category() == domain.CategoryElectrical {
			category = "电气"
		}
		special := ""
		if e.IsSpecial {
			special = "是"
		}
		rows = append(rows, []any{
			e.ID, e.Name, e.Model, e.SerialNumber, string(e.Status), category, special,
			e.Team, e.Manufacturer, e.ProductionDate, e.CommissionDate, e.NextInspectionDate, e.Notes,
		})
	}
	return generateSheet("设备台账", equipmentSheetHeaders, rows)
}

// ExportInspectionDue 生成定期检验到期提醒台账 Excel
func ExportInspectionDue(items []InspectionRow) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		e := &it.Equipment
		rows = append(rows, []any{
			e.ID, e.Name, e.Model, e.Team,
			e.InspectionCycle, e.LastInspectionDate, e.NextInspectionDate,
			it.DaysLeft, e.Inspector,
		})
	}
	return generateSheet("检验到期台账", inspectionSheetHeaders, rows)
}

// generateSheet 生成单工作表 Excel 文件
func generateSheet(sheetName string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	// 注意：WriteTo 之前不能 Close

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastCol, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to apply header style: %w", err)
	}

	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
