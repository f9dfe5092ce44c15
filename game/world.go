package game

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/goombaio/namegenerator"
	"go.uber.org/zap"
)

const (
	// spawnAttempts 出生点最多尝试次数，全部被占用时允许重叠，保证 Tick 有界完成
	spawnAttempts = 16
	// DefaultMaxNameLen 昵称最大长度（按字符计）
	DefaultMaxNameLen = 24
)

// Options 可在运行期调整的全局规则
type Options struct {
	Wrap            bool `json:"wrap"`
	MaxCollectibles int  `json:"maxCollectibles"`
}

// World 单个房间的全部可变状态。
// Tick 在持锁期间完成整个推进；输入处理器只在短暂持锁时修改自己玩家的叶子字段。
type World struct {
	mu sync.Mutex

	grid         Grid
	opts         Options
	tick         int64
	players      map[PlayerID]*Player
	collectibles []Cell

	rng        *rand.Rand
	names      namegenerator.Generator
	log        *zap.SugaredLogger
	maxNameLen int
}

// WorldOption 构造选项
type WorldOption func(*World)

// WithRand 指定随机源（测试中用固定种子）
func WithRand(rng *rand.Rand) WorldOption {
	return func(w *World) { w.rng = rng }
}

// WithLogger 指定日志，默认不输出
func WithLogger(l *zap.SugaredLogger) WorldOption {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithMaxNameLen 限制昵称长度
func WithMaxNameLen(n int) WorldOption {
	return func(w *World) {
		if n > 0 {
			w.maxNameLen = n
		}
	}
}

// NewWorld 创建空世界
func NewWorld(grid Grid, opts Options, options ...WorldOption) *World {
	w := &World{
		grid:       grid,
		opts:       opts,
		players:    make(map[PlayerID]*Player),
		log:        zap.NewNop().Sugar(),
		maxNameLen: DefaultMaxNameLen,
	}
	for _, o := range options {
		o(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w.names = newNameGenerator(w.rng)
	return w
}

func (w *World) Grid() Grid { return w.grid }

// Options 当前选项副本
func (w *World) Options() Options {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opts
}

// SetOptions 更新选项，下一次 Tick 生效
func (w *World) SetOptions(o Options) {
	if o.MaxCollectibles < 0 {
		o.MaxCollectibles = 0
	}
	w.mu.Lock()
	w.opts = o
	w.mu.Unlock()
}

// Tick 已完成的 Tick 数
func (w *World) Tick() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// NumPlayers 当前玩家数
func (w *World) NumPlayers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.players)
}

// Join 为连接创建玩家（随机出生点、名字、颜色）。
// 已存在的玩家在原地重生，保留外观。
func (w *World) Join(id PlayerID) PlayerSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		p = &Player{
			ID:     id,
			Name:   w.names.Generate(),
			Colour: randomColour(w.rng),
		}
		w.players[id] = p
	}
	p.respawn(w.spawnCell())
	w.log.Infow("player joined", "player", id, "name", p.Name, "x", p.Head.X, "y", p.Head.Y)
	return snapshotPlayer(p)
}

// Leave 移除玩家，返回玩家是否存在
func (w *World) Leave(id PlayerID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.players[id]; !ok {
		return false
	}
	delete(w.players, id)
	w.log.Infow("player left", "player", id)
	return true
}

// SetDirection 记录方向意图；DirNone 或未知玩家直接忽略
func (w *World) SetDirection(id PlayerID, d Direction) bool {
	if d == DirNone {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		return false
	}
	p.intent = d
	return true
}

// Rename 修改昵称；空字符串保留原昵称
func (w *World) Rename(id PlayerID, name string) bool {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > w.maxNameLen {
		name = string([]rune(name)[:w.maxNameLen])
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		return false
	}
	if name != "" {
		p.Name = name
		w.log.Infow("player renamed", "player", id, "name", name)
	}
	return true
}

// SetAvatar 修改头像引用；空字符串清除
func (w *World) SetAvatar(id PlayerID, image string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		return false
	}
	p.Image = image
	return true
}

// Player 查询单个玩家
func (w *World) Player(id PlayerID) (PlayerSnapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		return PlayerSnapshot{}, false
	}
	return snapshotPlayer(p), true
}

// Snapshot 当前完整状态的深拷贝
func (w *World) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *World) snapshotLocked() Snapshot {
	s := Snapshot{
		Tick:         w.tick,
		Width:        w.grid.Width,
		Height:       w.grid.Height,
		Options:      OptionsSnapshot{Wrap: w.opts.Wrap},
		Players:      make(map[string]PlayerSnapshot, len(w.players)),
		Collectibles: make([]Cell, len(w.collectibles)),
	}
	for id, p := range w.players {
		s.Players[string(id)] = snapshotPlayer(p)
	}
	copy(s.Collectibles, w.collectibles)
	return s
}

// Leaderboard 按 Level 降序（同分按名字）返回前 n 名；n <= 0 返回全部
func (w *World) Leaderboard(n int) []LeaderboardEntry {
	w.mu.Lock()
	out := make([]LeaderboardEntry, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, LeaderboardEntry{ID: string(p.ID), Name: p.Name, Level: p.Level})
	}
	w.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (w *World) randomCell() Cell {
	return Cell{X: w.rng.Intn(w.grid.Width), Y: w.rng.Intn(w.grid.Height)}
}

// spawnCell 优先选择空闲格子，尝试次数有限，失败时退化为任意格子
func (w *World) spawnCell() Cell {
	c := w.randomCell()
	for i := 1; i < spawnAttempts && w.isOccupied(c); i++ {
		c = w.randomCell()
	}
	return c
}

// isOccupied 越界（未开启环绕时）或与任意玩家（包括自己）的任意 Segment 重合
func (w *World) isOccupied(c Cell) bool {
	if !w.grid.InBounds(c) {
		return true
	}
	for _, p := range w.players {
		if p.occupies(c) {
			return true
		}
	}
	return false
}
