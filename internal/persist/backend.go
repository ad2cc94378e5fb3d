package persist

import (
	"context"

	"mineq-data/internal/domain"
)

// Collections 三个集合的一次完整读取结果
type Collections struct {
	Users     []domain.User
	Equipment []domain.Equipment
	Logs      []domain.Log
}

// Backend 持久化适配器
// 两种等价策略实现同一接口：本地持久 KV（KVBackend）与远程 API（RemoteBackend）。
// 适配器只持有镜像，不是权威数据；权威副本在 store.Store 内存中。
// 任一方法失败由调用方记录日志并吞掉，绝不向 Store 的调用者传播。
type Backend interface {
	// FetchAll 读取全部集合（每次变更后 Store 据此刷新内存镜像）
	FetchAll(ctx context.Context) (*Collections, error)

	CreateUser(ctx context.Context, u domain.User) error
	ReplaceUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, username string) error

	CreateEquipment(ctx context.Context, e domain.Equipment) error
	ReplaceEquipment(ctx context.Context, e domain.Equipment) error
	// DeleteEquipment 同时级联删除引用该设备的日志
	DeleteEquipment(ctx context.Context, id int) error

	CreateLog(ctx context.Context, l domain.Log) error
	ReplaceLog(ctx context.Context, l domain.Log) error
	DeleteLog(ctx context.Context, id int) error

	// 整集合替换（导入 overwrite 模式与快照恢复使用）
	ReplaceAllUsers(ctx context.Context, users []domain.User) error
	ReplaceAllEquipment(ctx context.Context, eqs []domain.Equipment) error
	ReplaceAllLogs(ctx context.Context, logs []domain.Log) error

	// 会话标记（跨重启保持当前登录用户）
	SaveSession(ctx context.Context, u *domain.User) error
	LoadSession(ctx context.Context) (*domain.User, error)
	ClearSession(ctx context.Context) error
}

// Authenticator 可选能力：由后端完成登录校验（远程策略走 POST /api/login）
// 未实现该接口时，Store 直接比对内存镜像中的摘要
type Authenticator interface {
	Login(ctx context.Context, username, passwordHash string) (*domain.User, error)
}
