// Package store 实体状态核心
// Store 独占持有用户/设备/日志三个集合与当前会话的权威副本，
// 所有变更操作在此进行并委托持久化适配器写镜像；
// 远程策略下每次变更后全量拉取是唯一的一致性机制。
package store

import (
	"context"
	"sync"
	"time"

	"mineq-data/internal/domain"
	"mineq-data/internal/importer"
	"mineq-data/internal/persist"
	"mineq-data/internal/snapshot"

	"go.uber.org/zap"
)

// Store 实体状态持有者
// 预期条件（用户名重复、凭据错误、快照损坏）以布尔结果上报；
// 适配器故障记录日志后吞掉，内存状态继续作为权威副本（接受读旧风险）。
type Store struct {
	backend persist.Backend
	logger  *zap.Logger

	mu        sync.RWMutex
	users     []domain.User
	equipment []domain.Equipment
	logs      []domain.Log
	current   *domain.User
}

func New(backend persist.Backend, logger *zap.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Load 启动时从适配器装载全部集合与会话标记
func (s *Store) Load(ctx context.Context) {
	s.refresh(ctx)

	u, err := s.backend.LoadSession(ctx)
	if err != nil {
		s.logger.Warn("failed to load session marker", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
}

// refresh 全量拉取并替换内存镜像；失败时沿用既有状态
func (s *Store) refresh(ctx context.Context) {
	cols, err := s.backend.FetchAll(ctx)
	if err != nil {
		s.logger.Warn("fetch-all failed, keeping in-memory state", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.users = cols.Users
	s.equipment = cols.Equipment
	s.logs = cols.Logs
	s.mu.Unlock()
}

// persistOp 执行一次适配器变更调用并随后全量刷新；错误吞掉只记日志
func (s *Store) persistOp(ctx context.Context, op string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		s.logger.Warn("persistence call failed, in-memory state stays authoritative",
			zap.String("op", op), zap.Error(err))
	}
	s.refresh(ctx)
}

// Login 登录：用户名与摘要匹配且状态为 active 才成功
// 口令错误与未审批不作区分（避免账号枚举）
func (s *Store) Login(ctx context.Context, username, passwordHash string) bool {
	var matched *domain.User

	if auth, ok := s.backend.(persist.Authenticator); ok {
		u, err := auth.Login(ctx, username, passwordHash)
		if err != nil {
			s.logger.Warn("remote login call failed", zap.Error(err))
			return false
		}
		matched = u
	} else {
		s.mu.RLock()
		for i := range s.users {
			u := &s.users[i]
			if u.Username == username && u.PasswordHash == passwordHash && u.Status == domain.UserActive {
				c := *u
				matched = &c
				break
			}
		}
		s.mu.RUnlock()
	}

	if matched == nil {
		return false
	}

	s.mu.Lock()
	s.current = matched
	s.mu.Unlock()

	if err := s.backend.SaveSession(ctx, matched); err != nil {
		s.logger.Warn("failed to persist session marker", zap.Error(err))
	}
	return true
}

// Logout 注销，总是成功
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.backend.ClearSession(ctx); err != nil {
		s.logger.Warn("failed to clear session marker", zap.Error(err))
	}
}

// Register 注册：用户名已存在返回 false；
// 新账号强制 status=pending、role=worker，不自动登录
func (s *Store) Register(ctx context.Context, u domain.User) bool {
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].Username == u.Username {
			s.mu.Unlock()
			return false
		}
	}
	u.Status = domain.UserPending
	u.Role = domain.RoleWorker
	s.users = append(s.users, u)
	s.mu.Unlock()

	s.persistOp(ctx, "create_user", func(ctx context.Context) error {
		return s.backend.CreateUser(ctx, u)
	})
	return true
}

// UpdateUser 将非 nil 字段合并进指定用户；用户不存在时静默忽略
func (s *Store) UpdateUser(ctx context.Context, username string, upd domain.UserUpdate) {
	var replaced *domain.User

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].Username == username {
			upd.Apply(&s.users[i])
			c := s.users[i]
			replaced = &c
			break
		}
	}
	s.mu.Unlock()

	if replaced == nil {
		s.logger.Warn("update for unknown user ignored", zap.String("username", username))
		return
	}
	s.persistOp(ctx, "replace_user", func(ctx context.Context) error {
		return s.backend.ReplaceUser(ctx, *replaced)
	})
}

// DeleteUser 删除用户；日志不级联（operator 只是自由文本）
func (s *Store) DeleteUser(ctx context.Context, username string) {
	s.mu.Lock()
	kept := s.users[:0]
	for _, u := range s.users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	s.users = kept
	s.mu.Unlock()

	s.persistOp(ctx, "delete_user", func(ctx context.Context) error {
		return s.backend.DeleteUser(ctx, username)
	})
}

// AddEquipment 登记新设备，ID 为 max(现有)+1
func (s *Store) AddEquipment(ctx context.Context, e domain.Equipment) domain.Equipment {
	s.mu.Lock()
	e.ID = domain.NextEquipmentID(s.equipment)
	s.equipment = append(s.equipment, e)
	s.mu.Unlock()

	s.persistOp(ctx, "create_equipment", func(ctx context.Context) error {
		return s.backend.CreateEquipment(ctx, e)
	})
	return e
}

// UpdateEquipment 按 ID 整体替换；ID 不存在时静默忽略（既有行为，仅记一条日志）
func (s *Store) UpdateEquipment(ctx context.Context, e domain.Equipment) {
	found := false

	s.mu.Lock()
	for i := range s.equipment {
		if s.equipment[i].ID == e.ID {
			s.equipment[i] = e
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		s.logger.Warn("update for unknown equipment ignored", zap.Int("id", e.ID))
		return
	}
	s.persistOp(ctx, "replace_equipment", func(ctx context.Context) error {
		return s.backend.ReplaceEquipment(ctx, e)
	})
}

// DeleteEquipment 删除设备并级联删除引用它的全部日志
func (s *Store) DeleteEquipment(ctx context.Context, id int) {
	s.mu.Lock()
	keptEq := s.equipment[:0]
	for _, e := range s.equipment {
		if e.ID != id {
			keptEq = append(keptEq, e)
		}
	}
	s.equipment = keptEq

	keptLogs := s.logs[:0]
	for _, l := range s.logs {
		if l.EqID != id {
			keptLogs = append(keptLogs, l)
		}
	}
	s.logs = keptLogs
	s.mu.Unlock()

	s.persistOp(ctx, "delete_equipment", func(ctx context.Context) error {
		return s.backend.DeleteEquipment(ctx, id)
	})
}

// AddLog 新增日志，随后无条件套用状态推导规则
func (s *Store) AddLog(ctx context.Context, l domain.Log) domain.Log {
	s.mu.Lock()
	l.ID = domain.NextLogID(s.logs)
	s.logs = append(s.logs, l)
	s.mu.Unlock()

	s.persistOp(ctx, "create_log", func(ctx context.Context) error {
		return s.backend.CreateLog(ctx, l)
	})
	s.applyDerivedStatus(ctx, l)
	return l
}

// UpdateLog 按 ID 整体替换并按（可能变化的）日志类型重新套用状态推导
// 状态推导不依赖替换是否命中，与既有行为一致
func (s *Store) UpdateLog(ctx context.Context, l domain.Log) {
	found := false

	s.mu.Lock()
	for i := range s.logs {
		if s.logs[i].ID == l.ID {
			s.logs[i] = l
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.persistOp(ctx, "replace_log", func(ctx context.Context) error {
			return s.backend.ReplaceLog(ctx, l)
		})
	} else {
		s.logger.Warn("update for unknown log ignored", zap.Int("id", l.ID))
	}
	s.applyDerivedStatus(ctx, l)
}

// DeleteLog 删除日志；不级联
func (s *Store) DeleteLog(ctx context.Context, id int) {
	s.mu.Lock()
	kept := s.logs[:0]
	for _, l := range s.logs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.logs = kept
	s.mu.Unlock()

	s.persistOp(ctx, "delete_log", func(ctx context.Context) error {
		return s.backend.DeleteLog(ctx, id)
	})
}

// applyDerivedStatus 系统唯一的自动状态迁移：
// 日志类型含「故障维修」→ 设备置为维修中；含「维修完成」→ 置为在用。
// 无条件覆盖当前状态（含报废），已处于目标状态时为幂等空转。
func (s *Store) applyDerivedStatus(ctx context.Context, l domain.Log) {
	status, ok := domain.DerivedStatus(l.LogType)
	if !ok {
		return
	}

	s.mu.RLock()
	var target *domain.Equipment
	for i := range s.equipment {
		if s.equipment[i].ID == l.EqID {
			c := s.equipment[i]
			target = &c
			break
		}
	}
	s.mu.RUnlock()

	if target == nil {
		// 悬挂引用：日志指向已删除的设备，不算错误
		return
	}
	target.Status = status
	s.UpdateEquipment(ctx, *target)
}

// ImportData 归并或整体替换外部批次数据
func (s *Store) ImportData(ctx context.Context, eqs []domain.Equipment, logs []domain.Log, mode importer.Mode) {
	s.mu.Lock()
	if mode == importer.ModeOverwrite {
		s.equipment = append([]domain.Equipment(nil), eqs...)
		s.logs = append([]domain.Log(nil), logs...)
	} else {
		s.equipment = importer.MergeEquipment(s.equipment, eqs)
		s.logs = importer.AppendLogs(s.logs, logs)
	}
	newEqs := append([]domain.Equipment(nil), s.equipment...)
	newLogs := append([]domain.Log(nil), s.logs...)
	s.mu.Unlock()

	// 先设备后日志：远程策略下删除设备会级联清日志
	s.persistOp(ctx, "import_data", func(ctx context.Context) error {
		if err := s.backend.ReplaceAllEquipment(ctx, newEqs); err != nil {
			return err
		}
		return s.backend.ReplaceAllLogs(ctx, newLogs)
	})
}

// FullState 导出全量快照文档
func (s *Store) FullState() string {
	s.mu.RLock()
	users := append([]domain.User(nil), s.users...)
	eqs := append([]domain.Equipment(nil), s.equipment...)
	logs := append([]domain.Log(nil), s.logs...)
	s.mu.RUnlock()

	doc, err := snapshot.Encode(users, eqs, logs, time.Now())
	if err != nil {
		// 固定结构的序列化不应失败；真失败时导出空文档
		s.logger.Error("snapshot encode failed", zap.Error(err))
		return ""
	}
	return doc
}

// LoadFullState 从快照文档恢复：解析失败返回 false 且不做任何变更；
// 文档中出现的集合整体替换，缺失的集合保持不动（破坏性恢复，非归并）
func (s *Store) LoadFullState(ctx context.Context, raw string) bool {
	doc, ok := snapshot.Decode(raw)
	if !ok {
		return false
	}

	s.mu.Lock()
	if doc.Users != nil {
		s.users = doc.Users
	}
	if doc.Equipment != nil {
		s.equipment = doc.Equipment
	}
	if doc.Logs != nil {
		s.logs = doc.Logs
	}
	users := append([]domain.User(nil), s.users...)
	eqs := append([]domain.Equipment(nil), s.equipment...)
	logs := append([]domain.Log(nil), s.logs...)
	s.mu.Unlock()

	s.persistOp(ctx, "load_full_state", func(ctx context.Context) error {
		if doc.Users != nil {
			if err := s.backend.ReplaceAllUsers(ctx, users); err != nil {
				return err
			}
		}
		if doc.Equipment != nil {
			if err := s.backend.ReplaceAllEquipment(ctx, eqs); err != nil {
				return err
			}
		}
		if doc.Logs != nil {
			if err := s.backend.ReplaceAllLogs(ctx, logs); err != nil {
				return err
			}
		}
		return nil
	})
	return true
}
