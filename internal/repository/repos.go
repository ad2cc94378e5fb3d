// Package repository 台账 API 服务端的数据仓库
// 每个集合一个仓库接口，postgres 与内存两种实现（DB 不可用时回退内存）。
package repository

import (
	"context"
	"errors"

	"mineq-data/internal/domain"
)

var (
	// ErrDuplicate 唯一键冲突（用户名已存在）
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
)

// UsersRepo 用户仓库
type UsersRepo interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) error
	Replace(ctx context.Context, username string, u domain.User) error
	Delete(ctx context.Context, username string) error
	// GetByCredentials 登录匹配：用户名+摘要+active；无匹配返回 (nil, nil)
	GetByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

// EquipmentRepo 设备仓库
type EquipmentRepo interface {
	List(ctx context.Context) ([]domain.Equipment, error)
	// Create 由仓库分配 ID（max+1），返回落库后的记录
	Create(ctx context.Context, e domain.Equipment) (domain.Equipment, error)
	Replace(ctx context.Context, id int, e domain.Equipment) error
	// Delete 级联删除引用该设备的日志
	Delete(ctx context.Context, id int) error
}

// LogsRepo 日志仓库
type LogsRepo interface {
	List(ctx context.Context) ([]domain.Log, error)
	Create(ctx context.Context, l domain.Log) (domain.Log, error)
	Replace(ctx context.Context, id int, l domain.Log) error
	Delete(ctx context.Context, id int) error
}
