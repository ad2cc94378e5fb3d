package repository

import (
	"context"
	"sort"
	"sync"

	"mineq-data/internal/domain"
)

// MemoryRepos DB 不可用时的内存实现（本地开发/测试用）
// 三个集合共用一把锁：设备删除要级联日志
type MemoryRepos struct {
	mu    sync.RWMutex
	users map[string]domain.User
	eqs   map[int]domain.Equipment
	logs  map[int]domain.Log
}

func NewMemoryRepos() *MemoryRepos {
	m := &MemoryRepos{
		users: map[string]domain.User{},
		eqs:   map[int]domain.Equipment{},
		logs:  map[int]domain.Log{},
	}
	for _, u := range domain.SeedUsers() {
		m.users[u.Username] = u
	}
	return m
}

var (
	_ UsersRepo     = (*MemoryRepos)(nil)
	_ EquipmentRepo = (*memoryEquipment)(nil)
	_ LogsRepo      = (*memoryLogs)(nil)
)

func (m *MemoryRepos) List(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MemoryRepos) Get(_ context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryRepos) Create(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Username]; exists {
		return ErrDuplicate
	}
	m.users[u.Username] = u
	return nil
}

func (m *MemoryRepos) Replace(_ context.Context, username string, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return ErrNotFound
	}
	u.Username = username
	m.users[username] = u
	return nil
}

func (m *MemoryRepos) Delete(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
	return nil
}

func (m *MemoryRepos) GetByCredentials(_ context.Context, username, passwordHash string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok || u.PasswordHash != passwordHash || u.Status != domain.UserActive {
		return nil, nil
	}
	return &u, nil
}

// EquipmentView 以 EquipmentRepo 视角访问同一份内存数据
// （List/Create 等方法名与 UsersRepo 冲突，故拆成视图类型）
func (m *MemoryRepos) EquipmentView() EquipmentRepo { return (*memoryEquipment)(m) }

// LogsView 以 LogsRepo 视角访问同一份内存数据
func (m *MemoryRepos) LogsView() LogsRepo { return (*memoryLogs)(m) }

type memoryEquipment MemoryRepos

func (m *memoryEquipment) List(_ context.Context) ([]domain.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Equipment, 0, len(m.eqs))
	for _, e := range m.eqs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryEquipment) Create(_ context.Context, e domain.Equipment) (domain.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxID := 0
	for id := range m.eqs {
		if id > maxID {
			maxID = id
		}
	}
	e.ID = maxID + 1
	m.eqs[e.ID] = e
	return e, nil
}

func (m *memoryEquipment) Replace(_ context.Context, id int, e domain.Equipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.eqs[id]; !ok {
		return ErrNotFound
	}
	e.ID = id
	m.eqs[id] = e
	return nil
}

func (m *memoryEquipment) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.eqs, id)
	for logID, l := range m.logs {
		if l.EqID == id {
			delete(m.logs, logID)
		}
	}
	return nil
}

type memoryLogs MemoryRepos

func (m *memoryLogs) List(_ context.Context) ([]domain.Log, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Log, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryLogs) Create(_ context.Context, l domain.Log) (domain.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxID := 0
	for id := range m.logs {
		if id > maxID {
			maxID = id
		}
	}
	l.ID = maxID + 1
	m.logs[l.ID] = l
	return l, nil
}

func (m *memoryLogs) Replace(_ context.Context, id int, l domain.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.logs[id]; !ok {
		return ErrNotFound
	}
	l.ID = id
	m.logs[id] = l
	return nil
}

func (m *memoryLogs) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.logs, id)
	return nil
}
