package server

import (
	"sort"
	"sync"

	"snakearena/game"
)

// RoomInfo 房间列表条目
type RoomInfo struct {
	ID       string `json:"id"`
	Players  int    `json:"players"`
	Sessions int    `json:"sessions"`
	Tick     int64  `json:"tick"`
}

// RoomManager 管理多个房间的生命周期；默认房间常驻，其他房间在最后一个连接离开后回收
type RoomManager struct {
	cfg Config

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRoomManager 使用配置创建房间管理器
func NewRoomManager(cfg Config) *RoomManager {
	return &RoomManager{cfg: cfg, rooms: make(map[string]*Room)}
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	if id == "" {
		id = m.cfg.DefaultRoom
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(id)
}

func (m *RoomManager) getOrCreateLocked(id string) *Room {
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id, m.cfg)
		if id != m.cfg.DefaultRoom {
			r.OnEmpty = m.removeRoom
		}
		m.rooms[id] = r
		r.StartTicker()
		Log.Infow("room created", "room", id, "grid", []int{m.cfg.GridWidth, m.cfg.GridHeight}, "tps", m.cfg.TickRate)
	}
	return r
}

// AttachSession 获取或创建房间并登记连接。
// 与 removeRoom 持同一把锁，连接不会登记到正在回收的房间上。
func (m *RoomManager) AttachSession(roomID string, id game.PlayerID, conn Conn) *Room {
	if roomID == "" {
		roomID = m.cfg.DefaultRoom
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.getOrCreateLocked(roomID)
	r.Attach(id, conn)
	return r
}

// removeRoom 房间为空时停止并移除；持锁复查，期间有新连接则保留
func (m *RoomManager) removeRoom(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok || !r.empty() {
		return
	}
	r.Stop()
	delete(m.rooms, id)
	Log.Infow("room removed", "room", id)
}

// Room 查找已存在的房间
func (m *RoomManager) Room(id string) (*Room, bool) {
	if id == "" {
		id = m.cfg.DefaultRoom
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// ListRooms 所有房间，按 ID 排序
func (m *RoomManager) ListRooms() []RoomInfo {
	m.mu.RLock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for id, r := range m.rooms {
		out = append(out, RoomInfo{
			ID:       id,
			Players:  r.world.NumPlayers(),
			Sessions: r.NumSessions(),
			Tick:     r.world.Tick(),
		})
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Shutdown 停止所有房间
func (m *RoomManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rooms {
		r.Stop()
		delete(m.rooms, id)
	}
}
