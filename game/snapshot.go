package game

// PlayerSnapshot 广播给客户端的玩家状态
type PlayerSnapshot struct {
	ID        string    `json:"id" msgpack:"id"`
	Name      string    `json:"name" msgpack:"name"`
	Colour    string    `json:"colour" msgpack:"colour"`
	Image     string    `json:"image,omitempty" msgpack:"image,omitempty"`
	X         int       `json:"x" msgpack:"x"`
	Y         int       `json:"y" msgpack:"y"`
	Segments  []Segment `json:"segments" msgpack:"segments"`
	Level     int       `json:"level" msgpack:"level"`
	Direction string    `json:"direction" msgpack:"direction"`
}

// OptionsSnapshot 全局选项
type OptionsSnapshot struct {
	Wrap bool `json:"wrap" msgpack:"wrap"`
}

// Snapshot 某个 Tick 结束时的完整世界状态（深拷贝，可在锁外安全读取）
type Snapshot struct {
	Tick         int64                     `json:"tick" msgpack:"tick"`
	Width        int                       `json:"width" msgpack:"width"`
	Height       int                       `json:"height" msgpack:"height"`
	Options      OptionsSnapshot           `json:"options" msgpack:"options"`
	Players      map[string]PlayerSnapshot `json:"players" msgpack:"players"`
	Collectibles []Cell                    `json:"collectibles" msgpack:"collectibles"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func snapshotPlayer(p *Player) PlayerSnapshot {
	segs := make([]Segment, len(p.Segments))
	copy(segs, p.Segments)
	return PlayerSnapshot{
		ID:        string(p.ID),
		Name:      p.Name,
		Colour:    p.Colour,
		Image:     p.Image,
		X:         p.Head.X,
		Y:         p.Head.Y,
		Segments:  segs,
		Level:     p.Level,
		Direction: p.Direction.String(),
	}
}
