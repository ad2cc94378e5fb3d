// Package importer 外部批次数据的归并引擎
// 设备按名称精确匹配归并，日志一律追加；缺字段的记录按零值接收，不整批拒绝
// （调用方负责预校验）。
package importer

import "mineq-data/internal/domain"

// Mode 导入模式
type Mode string

const (
	ModeAppend    Mode = "append"    // 设备按名归并、日志追加
	ModeOverwrite Mode = "overwrite" // 整集合替换
)

// MergeEquipment 将外部设备批次归并进现有集合
// 每条传入记录按 name 精确匹配（区分大小写，命中第一条）：
// 命中则整体替换但保留原 id；未命中则以 max(现有 id, 0)+1 新增，
// 每次插入后重算避免与批内新 id 冲突。
func MergeEquipment(existing, incoming []domain.Equipment) []domain.Equipment {
	merged := make([]domain.Equipment, len(existing))
	copy(merged, existing)

	for _, in := range incoming {
		idx := -1
		for i := range merged {
			if merged[i].Name == in.Name {
				idx = i
				break
			}
		}
		if idx >= 0 {
			keep := merged[idx].ID
			merged[idx] = in
			merged[idx].ID = keep
		} else {
			in.ID = domain.NextEquipmentID(merged)
			merged = append(merged, in)
		}
	}
	return merged
}

// AppendLogs 将外部日志批次逐条追加
// 日志导入从不归并：无论输入是否带 id，一律从 max(现有 id, 0)+1 起顺序分配
func AppendLogs(existing, incoming []domain.Log) []domain.Log {
	merged := make([]domain.Log, len(existing))
	copy(merged, existing)

	nextID := domain.NextLogID(merged)
	for _, in := range incoming {
		in.ID = nextID
		nextID++
		merged = append(merged, in)
	}
	return merged
}
