package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"mineq-data/internal/domain"

	"go.uber.org/zap"
)

// 各集合在 KV 中的固定逻辑键
const (
	keyUsers     = "mineq:users"
	keyEquipment = "mineq:equipment"
	keyLogs      = "mineq:logs"
	keySession   = "mineq:session"
)

// KVBackend 本地持久策略：每个集合序列化为一份 JSON 文档，每次变更写穿
// 存储不可读或内容损坏时回退为空集合（用户集合回退为种子账号），不报错
type KVBackend struct {
	kv     KV
	logger *zap.Logger
}

func NewKVBackend(kv KV, logger *zap.Logger) *KVBackend {
	return &KVBackend{kv: kv, logger: logger}
}

var _ Backend = (*KVBackend)(nil)

// readList 读取并反序列化一个集合文档；键缺失或损坏时返回零值
func readList[T any](ctx context.Context, b *KVBackend, key string) []T {
	raw, err := b.kv.Get(ctx, key)
	if err != nil {
		if err != ErrMiss {
			b.logger.Warn("kv read failed, falling back to empty collection",
				zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		b.logger.Warn("kv document malformed, falling back to empty collection",
			zap.String("key", key), zap.Error(err))
		return nil
	}
	return list
}

func writeList[T any](ctx context.Context, b *KVBackend, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	// ttl=0：台账数据永不过期
	if err := b.kv.Set(ctx, key, string(raw), 0); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// FetchAll 读取全部集合；用户集合为空时写入并返回种子账号
func (b *KVBackend) FetchAll(ctx context.Context) (*Collections, error) {
	users := readList[domain.User](ctx, b, keyUsers)
	if users == nil {
		users = domain.SeedUsers()
		if err := writeList(ctx, b, keyUsers, users); err != nil {
			b.logger.Warn("failed to persist seed users", zap.Error(err))
		}
	}
	return &Collections{
		Users:     users,
		Equipment: readList[domain.Equipment](ctx, b, keyEquipment),
		Logs:      readList[domain.Log](ctx, b, keyLogs),
	}, nil
}

func (b *KVBackend) CreateUser(ctx context.Context, u domain.User) error {
	users := readList[domain.User](ctx, b, keyUsers)
	users = append(users, u)
	return writeList(ctx, b, keyUsers, users)
}

func (b *KVBackend) ReplaceUser(ctx context.Context, u domain.User) error {
	users := readList[domain.User](ctx, b, keyUsers)
	for i := range users {
		if users[i].Username == u.Username {
			users[i] = u
		}
	}
	return writeList(ctx, b, keyUsers, users)
}

func (b *KVBackend) DeleteUser(ctx context.Context, username string) error {
	users := readList[domain.User](ctx, b, keyUsers)
	kept := users[:0]
	for _, u := range users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	return writeList(ctx, b, keyUsers, kept)
}

func (b *KVBackend) CreateEquipment(ctx context.Context, e domain.Equipment) error {
	eqs := readList[domain.Equipment](ctx, b, keyEquipment)
	eqs = append(eqs, e)
	return writeList(ctx, b, keyEquipment, eqs)
}

func (b *KVBackend) ReplaceEquipment(ctx context.Context, e domain.Equipment) error {
	eqs := readList[domain.Equipment](ctx, b, keyEquipment)
	for i := range eqs {
		if eqs[i].ID == e.ID {
			eqs[i] = e
		}
	}
	return writeList(ctx, b, keyEquipment, eqs)
}

func (b *KVBackend) DeleteEquipment(ctx context.Context, id int) error {
	eqs := readList[domain.Equipment](ctx, b, keyEquipment)
	keptEq := eqs[:0]
	for _, e := range eqs {
		if e.ID != id {
			keptEq = append(keptEq, e)
		}
	}
	if err := writeList(ctx, b, keyEquipment, keptEq); err != nil {
		return err
	}
	// 级联删除引用该设备的日志
	logs := readList[domain.Log](ctx, b, keyLogs)
	keptLogs := logs[:0]
	for _, l := range logs {
		if l.EqID != id {
			keptLogs = append(keptLogs, l)
		}
	}
	return writeList(ctx, b, keyLogs, keptLogs)
}

func (b *KVBackend) CreateLog(ctx context.Context, l domain.Log) error {
	logs := readList[domain.Log](ctx, b, keyLogs)
	logs = append(logs, l)
	return writeList(ctx, b, keyLogs, logs)
}

func (b *KVBackend) ReplaceLog(ctx context.Context, l domain.Log) error {
	logs := readList[domain.Log](ctx, b, keyLogs)
	for i := range logs {
		if logs[i].ID == l.ID {
			logs[i] = l
		}
	}
	return writeList(ctx, b, keyLogs, logs)
}

func (b *KVBackend) DeleteLog(ctx context.Context, id int) error {
	logs := readList[domain.Log](ctx, b, keyLogs)
	kept := logs[:0]
	for _, l := range logs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return writeList(ctx, b, keyLogs, kept)
}

func (b *KVBackend) ReplaceAllUsers(ctx context.Context, users []domain.User) error {
	return writeList(ctx, b, keyUsers, users)
}

func (b *KVBackend) ReplaceAllEquipment(ctx context.Context, eqs []domain.Equipment) error {
	return writeList(ctx, b, keyEquipment, eqs)
}

func (b *KVBackend) ReplaceAllLogs(ctx context.Context, logs []domain.Log) error {
	return writeList(ctx, b, keyLogs, logs)
}

func (b *KVBackend) SaveSession(ctx context.Context, u *domain.User) error {
	if u == nil {
		return b.ClearSession(ctx)
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return b.kv.Set(ctx, keySession, string(raw), 0)
}

func (b *KVBackend) LoadSession(ctx context.Context) (*domain.User, error) {
	raw, err := b.kv.Get(ctx, keySession)
	if err != nil {
		if err == ErrMiss {
			return nil, nil
		}
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		b.logger.Warn("session marker malformed, treating as logged out", zap.Error(err))
		return nil, nil
	}
	return &u, nil
}

func (b *KVBackend) ClearSession(ctx context.Context) error {
	return b.kv.Del(ctx, keySession)
}
