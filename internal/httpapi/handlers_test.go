package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mineq-data/internal/domain"
	"mineq-data/internal/httpapi"
	"mineq-data/internal/repository"
)

func newTestRouter(t *testing.T) *httpapi.Router {
	t.Helper()
	m := repository.NewMemoryRepos()
	h := httpapi.NewHandler(m, m.EquipmentView(), m.LogsView(), zap.NewNop())
	r := httpapi.NewRouter(zap.NewNop())
	r.Register(h)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/login", map[string]string{
		"username": "admin", "passwordHash": domain.SeedPasswordHash,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	type loginBody struct {
		Success bool         `json:"success"`
		User    *domain.User `json:"user"`
	}
	var out loginBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	require.NotNil(t, out.User)
	assert.Equal(t, domain.RoleAdmin, out.User.Role)

	// 凭据错误：200 + success=false（不暴露具体原因）
	rec = do(t, r, http.MethodPost, "/api/login", map[string]string{
		"username": "admin", "passwordHash": "bad",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	// 失败响应不带 user 键，重置解码目标避免沿用上一次的指针
	out = loginBody{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Success)
	assert.Nil(t, out.User)

	rec = do(t, r, http.MethodGet, "/api/login", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUserEndpoints(t *testing.T) {
	r := newTestRouter(t)

	// 服务端按提交内容原样存储，不做 pending/worker 强制（那是客户端入口的职责）
	rec := do(t, r, http.MethodPost, "/api/users", domain.User{
		Username: "zhangsan", PasswordHash: domain.HashPassword("pw"),
		Role: domain.RoleWorker, Status: domain.UserPending, Fullname: "张三",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/users", domain.User{Username: "zhangsan"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/users", domain.User{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 部分更新：只送 status，其余字段不动
	rec = do(t, r, http.MethodPut, "/api/users/zhangsan", map[string]string{"status": "active"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.UserActive, updated.Status)
	assert.Equal(t, "张三", updated.Fullname)

	rec = do(t, r, http.MethodPut, "/api/users/ghost", map[string]string{"status": "active"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/users/zhangsan", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestEquipmentEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/equipment", domain.Equipment{
		Name: "主井提升机", Status: domain.StatusInUse,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Equipment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)

	// 服务端是纯 CRUD：含「故障维修」的日志不会改设备状态，推导在客户端入口做
	rec = do(t, r, http.MethodPost, "/api/logs", domain.Log{
		EqID: created.ID, LogType: "故障维修", LogDate: "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/equipment", nil)
	var eqs []domain.Equipment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eqs))
	require.Len(t, eqs, 1)
	assert.Equal(t, domain.StatusInUse, eqs[0].Status)

	rec = do(t, r, http.MethodPut, "/api/equipment/1", domain.Equipment{
		Name: "主井提升机", Status: domain.StatusRepairing,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/equipment/99", domain.Equipment{Name: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 删除设备级联清日志
	rec = do(t, r, http.MethodDelete, "/api/equipment/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, r, http.MethodGet, "/api/logs", nil)
	var logs []domain.Log
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	assert.Empty(t, logs)
}

func TestLogEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/logs", domain.Log{
		EqID: 1, LogType: "检查", LogDate: "2024-01-01", Operator: "张工",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Log
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)

	rec = do(t, r, http.MethodPut, "/api/logs/1", domain.Log{
		EqID: 1, LogType: "保养", LogDate: "2024-01-02",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/logs/42", domain.Log{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/logs/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouting(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 非整数 ID
	rec = do(t, r, http.MethodDelete, "/api/equipment/abc", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 每个响应带请求追踪头
	rec = do(t, r, http.MethodGet, "/api/users", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
