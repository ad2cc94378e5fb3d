// Package report 台账的表格导入导出（CSV 与 Excel）
// 核心集合之外的协作层：与前端既有 CSV 往来格式保持一致。
package report

import (
	"bytes"
	"strconv"
	"strings"
)

// utf8BOM 导出文件带 BOM，Excel 打开中文不乱码
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseTable 解析 CSV 文本为记录列表（首行为表头）
// 单元格类型推断：true/false → bool，数字 → float64；
// 列名含 "date" 或 "serial" 的一律保留文本（避免吃掉序列号前导零）
func ParseTable(text string) []map[string]any {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil
	}

	headers := parseLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.Trim(strings.TrimSpace(h), `"`)
	}

	var records []map[string]any
	for _, line := range lines[1:] {
		values := parseLine(line)
		rec := make(map[string]any, len(headers))
		for i, h := range headers {
			var val string
			if i < len(values) {
				val = values[i]
			}
			rec[h] = coerce(h, val)
		}
		records = append(records, rec)
	}
	return records
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var lines []string
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// parseLine 逐字符扫描：支持引号包裹与 "" 转义
func parseLine(line string) []string {
	var values []string
	var cur strings.Builder
	insideQuote := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if insideQuote && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				insideQuote = !insideQuote
			}
		case ch == ',' && !insideQuote:
			values = append(values, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	values = append(values, strings.TrimSpace(cur.String()))
	return values
}

func coerce(header, val string) any {
	lower := strings.ToLower(val)
	if lower == "true" {
		return true
	}
	if lower == "false" {
		return false
	}
	h := strings.ToLower(header)
	if val != "" && !strings.Contains(h, "date") && !strings.Contains(h, "serial") {
		if n, err := strconv.ParseFloat(val, 64); err == nil {
			return n
		}
	}
	return val
}

// MarshalTable 生成 CSV 字节流（含 BOM 与表头行）
// 含逗号/引号/换行的单元格加引号并转义
func MarshalTable(headers []string, rows [][]string) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(escapeCell(c))
		}
		buf.WriteByte('\n')
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return buf.Bytes()
}

func escapeCell(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
