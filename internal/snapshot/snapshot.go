// Package snapshot 全量状态快照编解码
// 把三个集合连同采集时间戳打包为一份自描述 JSON 文档，用于备份/恢复。
package snapshot

import (
	"encoding/json"
	"time"

	"mineq-data/internal/domain"
)

// Document 快照文档
// 恢复时按键整体替换对应集合；缺失的键（反序列化后为 nil 切片）保持原集合不动
type Document struct {
	Users     []domain.User      `json:"users"`
	Equipment []domain.Equipment `json:"equipment"`
	Logs      []domain.Log       `json:"logs"`
	Timestamp string             `json:"timestamp"` // ISO-8601 采集时间
}

// Encode 生成快照文档
func Encode(users []domain.User, eqs []domain.Equipment, logs []domain.Log, now time.Time) (string, error) {
	if users == nil {
		users = []domain.User{}
	}
	if eqs == nil {
		eqs = []domain.Equipment{}
	}
	if logs == nil {
		logs = []domain.Log{}
	}
	doc := Document{
		Users:     users,
		Equipment: eqs,
		Logs:      logs,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Decode 解析快照文档；解析失败返回 ok=false，调用方不得应用任何变更
func Decode(raw string) (*Document, bool) {
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false
	}
	return &doc, true
}
