package domain

import "time"

const dateLayout = "2006-01-02"

// DaysUntil 计算从今天到目标日期的天数（按自然日取整，过期为负数）
// 日期解析失败时返回 0 和 false
func DaysUntil(dateStr string, now time.Time) (int, bool) {
	target, err := time.ParseInLocation(dateLayout, dateStr, now.Location())
	if err != nil {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(target.Sub(today).Hours() / 24), true
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
