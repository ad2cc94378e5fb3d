package persist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mineq-data/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RemoteBackend 远程策略：集合映射为 REST 资源（/api/users 等）
// 每次变更后由 Store 触发 FetchAll 全量拉取，镜像以服务端为准；
// 网络失败以 error 形式返回，由 Store 记录并吞掉（沿用既有内存状态）。
// 会话标记只保存在进程内：远程部署下登录态本就属于各前端自身。
type RemoteBackend struct {
	client *resty.Client
	logger *zap.Logger

	mu      sync.RWMutex
	session *domain.User
}

func NewRemoteBackend(baseURL string, logger *zap.Logger) *RemoteBackend {
	// 不设置超时与重试：单写者顺序操作，失败即放弃，交由下次全量拉取纠偏
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &RemoteBackend{client: client, logger: logger}
}

var _ Backend = (*RemoteBackend)(nil)
var _ Authenticator = (*RemoteBackend)(nil)

func getList[T any](ctx context.Context, b *RemoteBackend, path string) ([]T, error) {
	var list []T
	resp, err := b.client.R().SetContext(ctx).SetResult(&list).Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode())
	}
	// resty 只在响应标成 JSON 时反序列化；非 JSON 的 200（如出错的代理页面）
	// 必须按故障上报，否则空 list 会经全量刷新清掉内存镜像
	if !strings.Contains(resp.Header().Get("Content-Type"), "json") {
		return nil, fmt.Errorf("GET %s: unexpected content type %q", path, resp.Header().Get("Content-Type"))
	}
	return list, nil
}

func (b *RemoteBackend) send(ctx context.Context, method, path string, body any) error {
	req := b.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode())
	}
	return nil
}

func (b *RemoteBackend) FetchAll(ctx context.Context) (*Collections, error) {
	users, err := getList[domain.User](ctx, b, "/api/users")
	if err != nil {
		return nil, err
	}
	eqs, err := getList[domain.Equipment](ctx, b, "/api/equipment")
	if err != nil {
		return nil, err
	}
	logs, err := getList[domain.Log](ctx, b, "/api/logs")
	if err != nil {
		return nil, err
	}
	return &Collections{Users: users, Equipment: eqs, Logs: logs}, nil
}

// loginResponse POST /api/login 的响应体
type loginResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
}

// Login 远程登录校验；凭据不匹配返回 (nil, nil)，网络故障返回 error
func (b *RemoteBackend) Login(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	var out loginResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "passwordHash": passwordHash}).
		SetResult(&out).
		Post("/api/login")
	if err != nil {
		return nil, fmt.Errorf("POST /api/login: %w", err)
	}
	// 401 属于预期的凭据失败，不算网络故障
	if resp.IsError() || !out.Success || out.User == nil {
		return nil, nil
	}
	return out.User, nil
}

func (b *RemoteBackend) CreateUser(ctx context.Context, u domain.User) error {
	return b.send(ctx, resty.MethodPost, "/api/users", u)
}

func (b *RemoteBackend) ReplaceUser(ctx context.Context, u domain.User) error {
	return b.send(ctx, resty.MethodPut, fmt.Sprintf("/api/users/%s", u.Username), u)
}

func (b *RemoteBackend) DeleteUser(ctx context.Context, username string) error {
	return b.send(ctx, resty.MethodDelete, fmt.Sprintf("/api/users/%s", username), nil)
}

func (b *RemoteBackend) CreateEquipment(ctx context.Context, e domain.Equipment) error {
	return b.send(ctx, resty.MethodPost, "/api/equipment", e)
}

func (b *RemoteBackend) ReplaceEquipment(ctx context.Context, e domain.Equipment) error {
	return b.send(ctx, resty.MethodPut, fmt.Sprintf("/api/equipment/%d", e.ID), e)
}

func (b *RemoteBackend) DeleteEquipment(ctx context.Context, id int) error {
	// 日志级联由服务端完成
	return b.send(ctx, resty.MethodDelete, fmt.Sprintf("/api/equipment/%d", id), nil)
}

func (b *RemoteBackend) CreateLog(ctx context.Context, l domain.Log) error {
	return b.send(ctx, resty.MethodPost, "/api/logs", l)
}

func (b *RemoteBackend) ReplaceLog(ctx context.Context, l domain.Log) error {
	return b.send(ctx, resty.MethodPut, fmt.Sprintf("/api/logs/%d", l.ID), l)
}

func (b *RemoteBackend) DeleteLog(ctx context.Context, id int) error {
	return b.send(ctx, resty.MethodDelete, fmt.Sprintf("/api/logs/%d", id), nil)
}

// replaceAll 远程整集合替换：逐个删除现有记录再逐个创建
// REST 资源没有批量端点，沿用逐条调用；中途失败时由随后的 FetchAll 对齐
func (b *RemoteBackend) ReplaceAllUsers(ctx context.Context, users []domain.User) error {
	existing, err := getList[domain.User](ctx, b, "/api/users")
	if err != nil {
		return err
	}
	for _, u := range existing {
		if err := b.DeleteUser(ctx, u.Username); err != nil {
			return err
		}
	}
	for _, u := range users {
		if err := b.CreateUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (b *RemoteBackend) ReplaceAllEquipment(ctx context.Context, eqs []domain.Equipment) error {
	existing, err := getList[domain.Equipment](ctx, b, "/api/equipment")
	if err != nil {
		return err
	}
	for _, e := range existing {
		if err := b.send(ctx, resty.MethodDelete, fmt.Sprintf("/api/equipment/%d", e.ID), nil); err != nil {
			return err
		}
	}
	for _, e := range eqs {
		if err := b.CreateEquipment(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (b *RemoteBackend) ReplaceAllLogs(ctx context.Context, logs []domain.Log) error {
	existing, err := getList[domain.Log](ctx, b, "/api/logs")
	if err != nil {
		return err
	}
	for _, l := range existing {
		if err := b.DeleteLog(ctx, l.ID); err != nil {
			return err
		}
	}
	for _, l := range logs {
		if err := b.CreateLog(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (b *RemoteBackend) SaveSession(_ context.Context, u *domain.User) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = u
	return nil
}

func (b *RemoteBackend) LoadSession(_ context.Context) (*domain.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session, nil
}

func (b *RemoteBackend) ClearSession(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = nil
	return nil
}
