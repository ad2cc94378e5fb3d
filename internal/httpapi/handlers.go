package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"mineq-data/internal/domain"
	"mineq-data/internal/repository"

	"go.uber.org/zap"
)

// Handler /api 资源处理器
type Handler struct {
	users  repository.UsersRepo
	eqs    repository.EquipmentRepo
	logs   repository.LogsRepo
	logger *zap.Logger
}

func NewHandler(users repository.UsersRepo, eqs repository.EquipmentRepo, logs repository.LogsRepo, logger *zap.Logger) *Handler {
	return &Handler{users: users, eqs: eqs, logs: logs, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("handler failed", zap.String("op", op), zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
}

// loginRequest POST /api/login 请求体
type loginRequest struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// loginResult POST /api/login 响应体
// 口令错误与账号未审批不作区分，统一 success=false
type loginResult struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
}

func (h *Handler) Login(w http.ResponseWriter, req *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResult{Success: false})
		return
	}
	u, err := h.users.GetByCredentials(req.Context(), in.Username, in.PasswordHash)
	if err != nil {
		h.serverError(w, "login", err)
		return
	}
	if u == nil {
		writeJSON(w, http.StatusOK, loginResult{Success: false})
		return
	}
	writeJSON(w, http.StatusOK, loginResult{Success: true, User: u})
}

func (h *Handler) ListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := h.users.List(req.Context())
	if err != nil {
		h.serverError(w, "list_users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, req *http.Request) {
	var u domain.User
	if err := json.NewDecoder(req.Body).Decode(&u); err != nil || u.Username == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err := h.users.Create(req.Context(), u)
	if errors.Is(err, repository.ErrDuplicate) {
		w.WriteHeader(http.StatusConflict)
		return
	}
	if err != nil {
		h.serverError(w, "create_user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// userPatch PUT /api/users/{username} 请求体（部分字段更新，缺失的键不动）
type userPatch struct {
	PasswordHash *string            `json:"passwordHash"`
	Role         *domain.Role       `json:"role"`
	Status       *domain.UserStatus `json:"status"`
	Fullname     *string            `json:"fullname"`
	Team         *string            `json:"team"`
	Contact      *string            `json:"contact"`
}

func (h *Handler) UpdateUser(w http.ResponseWriter, req *http.Request, username string) {
	var patch userPatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	existing, err := h.users.Get(req.Context(), username)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, "update_user", err)
		return
	}

	upd := domain.UserUpdate{
		PasswordHash: patch.PasswordHash,
		Role:         patch.Role,
		Status:       patch.Status,
		Fullname:     patch.Fullname,
		Team:         patch.Team,
		Contact:      patch.Contact,
	}
	upd.Apply(existing)

	if err := h.users.Replace(req.Context(), username, *existing); err != nil {
		h.serverError(w, "update_user", err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, req *http.Request, username string) {
	if err := h.users.Delete(req.Context(), username); err != nil {
		h.serverError(w, "delete_user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListEquipment(w http.ResponseWriter, req *http.Request) {
	eqs, err := h.eqs.List(req.Context())
	if err != nil {
		h.serverError(w, "list_equipment", err)
		return
	}
	writeJSON(w, http.StatusOK, eqs)
}

func (h *Handler) CreateEquipment(w http.ResponseWriter, req *http.Request) {
	var e domain.Equipment
	if err := json.NewDecoder(req.Body).Decode(&e); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	created, err := h.eqs.Create(req.Context(), e)
	if err != nil {
		h.serverError(w, "create_equipment", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateEquipment(w http.ResponseWriter, req *http.Request, id int) {
	var e domain.Equipment
	if err := json.NewDecoder(req.Body).Decode(&e); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err := h.eqs.Replace(req.Context(), id, e)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, "update_equipment", err)
		return
	}
	e.ID = id
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, req *http.Request, id int) {
	if err := h.eqs.Delete(req.Context(), id); err != nil {
		h.serverError(w, "delete_equipment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListLogs(w http.ResponseWriter, req *http.Request) {
	logs, err := h.logs.List(req.Context())
	if err != nil {
		h.serverError(w, "list_logs", err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *Handler) CreateLog(w http.ResponseWriter, req *http.Request) {
	var l domain.Log
	if err := json.NewDecoder(req.Body).Decode(&l); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	created, err := h.logs.Create(req.Context(), l)
	if err != nil {
		h.serverError(w, "create_log", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateLog(w http.ResponseWriter, req *http.Request, id int) {
	var l domain.Log
	if err := json.NewDecoder(req.Body).Decode(&l); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err := h.logs.Replace(req.Context(), id, l)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, "update_log", err)
		return
	}
	l.ID = id
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) DeleteLog(w http.ResponseWriter, req *http.Request, id int) {
	if err := h.logs.Delete(req.Context(), id); err != nil {
		h.serverError(w, "delete_log", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
