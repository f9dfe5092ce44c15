package server

import (
	"strings"
	"sync"

	"snakearena/game"
)

// Room 房间：权威世界状态在 game.World 中，由单个 Tick 协程推进；
// 连接的读协程通过 OnXxx 方法只修改自己玩家的字段
type Room struct {
	ID string

	world   *game.World
	cfg     Config
	metrics *RoomMetrics

	mu       sync.RWMutex
	sessions map[game.PlayerID]*Session

	quit      chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once

	// OnEmpty 最后一个连接离开且没有玩家时调用
	OnEmpty func(id string)
}

// NewRoom 创建房间，初始化数据结构
func NewRoom(id string, cfg Config, opts ...game.WorldOption) *Room {
	log := Log.With("room", id)
	opts = append([]game.WorldOption{game.WithLogger(log), game.WithMaxNameLen(cfg.MaxNameLen)}, opts...)
	return &Room{
		ID: id,
		world: game.NewWorld(
			game.Grid{Width: cfg.GridWidth, Height: cfg.GridHeight},
			game.Options{Wrap: cfg.Wrap, MaxCollectibles: cfg.MaxCollectibles},
			opts...,
		),
		cfg:      cfg,
		metrics:  &RoomMetrics{},
		sessions: make(map[game.PlayerID]*Session),
		quit:     make(chan struct{}),
	}
}

func (r *Room) World() *game.World    { return r.world }
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// NumSessions 当前连接数（包括尚未 join 的观战连接）
func (r *Room) NumSessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Attach 登记连接并发送 welcome；此时尚未创建玩家
func (r *Room) Attach(id game.PlayerID, conn Conn) {
	s := &Session{ID: id, Conn: conn}
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	s.send(newFrameCache(welcomeMessage{
		Type:     "welcome",
		ID:       string(id),
		Room:     r.ID,
		CellSize: r.cfg.CellSize,
		Width:    r.cfg.GridWidth,
		Height:   r.cfg.GridHeight,
		TickRate: r.cfg.TickRate,
	}))
	Log.Infow("client connected", "room", r.ID, "player", id, "codec", conn.Codec())
}

// Dispatch 把一条入站消息分发给对应的处理器，未知类型忽略
func (r *Room) Dispatch(id game.PlayerID, im InputMessage) {
	switch strings.ToLower(im.Type) {
	case MsgJoin:
		r.OnJoin(id)
	case MsgMove:
		dir, ok := game.ParseDirection(strings.ToLower(im.Command))
		if !ok {
			r.metrics.IncIgnored()
			return
		}
		r.OnDirectionIntent(id, dir)
	case MsgRename:
		r.OnRename(id, im.Name)
	case MsgAvatar:
		r.OnAvatarUpdate(id, im.Image)
	default:
		r.metrics.IncIgnored()
	}
}

// OnJoin 创建玩家；连接未登记时忽略
func (r *Room) OnJoin(id game.PlayerID) {
	r.mu.RLock()
	_, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		r.metrics.IncIgnored()
		return
	}
	r.world.Join(id)
	r.metrics.IncAccepted()
}

// OnDirectionIntent 记录方向意图，下一次 Tick 生效
func (r *Room) OnDirectionIntent(id game.PlayerID, dir game.Direction) {
	r.count(r.world.SetDirection(id, dir))
}

// OnRename 修改昵称；空字符串保持原名
func (r *Room) OnRename(id game.PlayerID, name string) {
	r.count(r.world.Rename(id, name))
}

// OnAvatarUpdate 修改头像；空字符串清除
func (r *Room) OnAvatarUpdate(id game.PlayerID, image string) {
	r.count(r.world.SetAvatar(id, image))
}

// OnDisconnect 移除玩家与连接，可重复调用
func (r *Room) OnDisconnect(id game.PlayerID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	r.world.Leave(id)
	if ok {
		s.Conn.Close()
		Log.Infow("client disconnected", "room", r.ID, "player", id)
	}
	if r.OnEmpty != nil && r.empty() {
		r.OnEmpty(r.ID)
	}
}

func (r *Room) empty() bool {
	return r.NumSessions() == 0 && r.world.NumPlayers() == 0
}

func (r *Room) count(accepted bool) {
	if accepted {
		r.metrics.IncAccepted()
	} else {
		r.metrics.IncIgnored()
	}
}

// Broadcast 将快照发送给房间内所有连接（包括观战连接），队列满的连接丢弃本帧
func (r *Room) Broadcast(snap game.Snapshot) {
	fc := newFrameCache(stateMessage{Type: "state", Snapshot: snap})
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if !s.send(fc) {
			r.metrics.IncDropped()
		}
	}
}

// notifyDied 只通知死亡玩家自己的连接
func (r *Room) notifyDied(ids []game.PlayerID) {
	if len(ids) == 0 {
		return
	}
	fc := newFrameCache(diedMessage{Type: "died"})
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range ids {
		if s, ok := r.sessions[id]; ok {
			if !s.send(fc) {
				r.metrics.IncDropped()
			}
		}
	}
}
