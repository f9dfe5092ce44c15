package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// HandleAdminConfig 提供房间规则的读取与更新（热更新，下一次 Tick 生效）
// GET /admin/config?room=room-1  返回当前配置
// POST /admin/config?room=room-1 以 JSON 载荷更新部分字段
// 只作用于已存在的房间，不会因管理请求创建房间
func (m *RoomManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	room, ok := m.Room(r.URL.Query().Get("room"))
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	type cfg struct {
		Wrap            *bool `json:"wrap,omitempty"`
		MaxCollectibles *int  `json:"maxCollectibles,omitempty"`
		TickRate        int   `json:"tickRate,omitempty"`
		Width           int   `json:"width,omitempty"`
		Height          int   `json:"height,omitempty"`
		CellSize        int   `json:"cellSize,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		opts := room.world.Options()
		cur := cfg{
			Wrap:            &opts.Wrap,
			MaxCollectibles: &opts.MaxCollectibles,
			TickRate:        m.cfg.TickRate,
			Width:           m.cfg.GridWidth,
			Height:          m.cfg.GridHeight,
			CellSize:        m.cfg.CellSize,
		}
		writeJSON(w, http.StatusOK, cur)
		return
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.MaxCollectibles != nil && *body.MaxCollectibles < 0 {
			http.Error(w, "maxCollectibles must not be negative", http.StatusBadRequest)
			return
		}
		opts := room.world.Options()
		if body.Wrap != nil {
			opts.Wrap = *body.Wrap
		}
		if body.MaxCollectibles != nil {
			opts.MaxCollectibles = *body.MaxCollectibles
		}
		room.world.SetOptions(opts)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		Log.Infow("config updated", "room", room.ID, "wrap", opts.Wrap, "maxCollectibles", opts.MaxCollectibles)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func (m *RoomManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	room, ok := m.Room(r.URL.Query().Get("room"))
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	payload := map[string]any{
		"room":     room.ID,
		"tick":     room.world.Tick(),
		"players":  room.world.NumPlayers(),
		"sessions": room.NumSessions(),
		"metrics":  room.metrics.Snapshot(),
	}
	writeJSON(w, http.StatusOK, payload)
}

// HandleLeaderboard 按 Level 排序的玩家列表
// GET /leaderboard?room=room-1&limit=10
func (m *RoomManager) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	room, ok := m.Room(q.Get("room"))
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, room.world.Leaderboard(limit))
}

// HandleRooms 房间列表
// GET /rooms
func (m *RoomManager) HandleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.ListRooms())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
