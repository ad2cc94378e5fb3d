// Package httpapi 台账 /api 服务端（远程持久策略的对端）
// 使用标准库 http.ServeMux（避免引入第三方路由依赖）
package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Router /api 路由
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	withRequestID(r.logger, r.mux).ServeHTTP(w, req)
}

// Register 挂载全部资源路由
func (r *Router) Register(h *Handler) {
	r.mux.HandleFunc("/api/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})

	r.mux.HandleFunc("/api/users", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListUsers(w, req)
		case http.MethodPost:
			h.CreateUser(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.mux.HandleFunc("/api/users/", func(w http.ResponseWriter, req *http.Request) {
		username := strings.TrimPrefix(req.URL.Path, "/api/users/")
		if username == "" || strings.Contains(username, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodPut:
			h.UpdateUser(w, req, username)
		case http.MethodDelete:
			h.DeleteUser(w, req, username)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.mux.HandleFunc("/api/equipment", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListEquipment(w, req)
		case http.MethodPost:
			h.CreateEquipment(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.mux.HandleFunc("/api/equipment/", func(w http.ResponseWriter, req *http.Request) {
		id, ok := trailingID(req.URL.Path, "/api/equipment/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodPut:
			h.UpdateEquipment(w, req, id)
		case http.MethodDelete:
			h.DeleteEquipment(w, req, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.mux.HandleFunc("/api/logs", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListLogs(w, req)
		case http.MethodPost:
			h.CreateLog(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.mux.HandleFunc("/api/logs/", func(w http.ResponseWriter, req *http.Request) {
		id, ok := trailingID(req.URL.Path, "/api/logs/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodPut:
			h.UpdateLog(w, req, id)
		case http.MethodDelete:
			h.DeleteLog(w, req, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// trailingID 从路径中取出末段的整数 ID
func trailingID(path, prefix string) (int, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
