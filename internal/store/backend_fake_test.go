package store_test

import (
	"context"
	"errors"
	"sync"

	"mineq-data/internal/domain"
	"mineq-data/internal/persist"
)

// fakeBackend 测试用内存持久化适配器
// 行为对齐 KVBackend：逐条写穿 + 设备删除级联日志
// failing=true 时所有调用返回错误，用于验证错误被吞掉
type fakeBackend struct {
	mu      sync.Mutex
	users   []domain.User
	eqs     []domain.Equipment
	logs    []domain.Log
	session *domain.User
	failing bool
	calls   []string
}

var errFakeDown = errors.New("backend down")

func (f *fakeBackend) record(op string) error {
	f.calls = append(f.calls, op)
	if f.failing {
		return errFakeDown
	}
	return nil
}

func (f *fakeBackend) FetchAll(_ context.Context) (*persist.Collections, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("fetch_all"); err != nil {
		return nil, err
	}
	return &persist.Collections{
		Users:     append([]domain.User(nil), f.users...),
		Equipment: append([]domain.Equipment(nil), f.eqs...),
		Logs:      append([]domain.Log(nil), f.logs...),
	}, nil
}

func (f *fakeBackend) CreateUser(_ context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create_user"); err != nil {
		return err
	}
	f.users = append(f.users, u)
	return nil
}

func (f *fakeBackend) ReplaceUser(_ context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("replace_user"); err != nil {
		return err
	}
	for i := range f.users {
		if f.users[i].Username == u.Username {
			f.users[i] = u
		}
	}
	return nil
}

func (f *fakeBackend) DeleteUser(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete_user"); err != nil {
		return err
	}
	kept := f.users[:0]
	for _, u := range f.users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	f.users = kept
	return nil
}

func (f *fakeBackend) CreateEquipment(_ context.Context, e domain.Equipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create_equipment"); err != nil {
		return err
	}
	f.eqs = append(f.eqs, e)
	return nil
}

func (f *fakeBackend) ReplaceEquipment(_ context.Context, e domain.Equipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("replace_equipment"); err != nil {
		return err
	}
	for i := range f.eqs {
		if f.eqs[i].ID == e.ID {
			f.eqs[i] = e
		}
	}
	return nil
}

func (f *fakeBackend) DeleteEquipment(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete_equipment"); err != nil {
		return err
	}
	keptEq := f.eqs[:0]
	for _, e := range f.eqs {
		if e.ID != id {
			keptEq = append(keptEq, e)
		}
	}
	f.eqs = keptEq
	keptLogs := f.logs[:0]
	for _, l := range f.logs {
		if l.EqID != id {
			keptLogs = append(keptLogs, l)
		}
	}
	f.logs = keptLogs
	return nil
}

func (f *fakeBackend) CreateLog(_ context.Context, l domain.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create_log"); err != nil {
		return err
	}
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeBackend) ReplaceLog(_ context.Context, l domain.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("replace_log"); err != nil {
		return err
	}
	for i := range f.logs {
		if f.logs[i].ID == l.ID {
			f.logs[i] = l
		}
	}
	return nil
}

func (f *fakeBackend) DeleteLog(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete_log"); err != nil {
		return err
	}
	kept := f.logs[:0]
	for _, l := range f.logs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	f.logs = kept
	return nil
}

func (f *fakeBackend) ReplaceAllUsers(_ context.Context, users []domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("replace_all_users"); err != nil {
		return err
	}
	f.users = append([]domain.User(nil), users...)
	return nil
}

func (f *fakeBackend) ReplaceAllEquipment(_ context.Context, eqs []domain.Equipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("replace_all_equipment"); err != nil {
		return err
	}
	f.eqs = append([]domain.Equipment(nil), eqs...)
	return nil
}

func (f *fakeBackend) ReplaceAllLogs(_ context.Context, logs []domain.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("replace_all_logs"); err != nil {
		return err
	}
	f.logs = append([]domain.Log(nil), logs...)
	return nil
}

func (f *fakeBackend) SaveSession(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("save_session"); err != nil {
		return err
	}
	f.session = u
	return nil
}

func (f *fakeBackend) LoadSession(_ context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("load_session"); err != nil {
		return nil, err
	}
	return f.session, nil
}

func (f *fakeBackend) ClearSession(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("clear_session"); err != nil {
		return err
	}
	f.session = nil
	return nil
}
