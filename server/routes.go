package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter 注册全部 HTTP 路由；staticDir 为空时不挂载静态资源
func NewRouter(m *RoomManager, staticDir string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", m.HandleWS).Methods(http.MethodGet)
	// 管理与监控接口
	r.HandleFunc("/admin/config", m.HandleAdminConfig).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/metrics", m.HandleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", m.HandleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/rooms", m.HandleRooms).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	// 前后端分离：将 / 映射到 web 目录的静态资源
	if staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}
	return r
}
