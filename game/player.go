package game

// PlayerID 连接的不透明标识，由传输层分配
type PlayerID string

// Segment 蛇身的一格，Age 为创建以来经过的 Tick 数
type Segment struct {
	X   int `json:"x" msgpack:"x"`
	Y   int `json:"y" msgpack:"y"`
	Age int `json:"age" msgpack:"age"`
}

func (s Segment) Cell() Cell { return Cell{X: s.X, Y: s.Y} }

// Player 服务端权威的玩家实体。
// 不变量：1 <= len(Segments) <= Level，且最后一个 Segment 与 Head 相同。
type Player struct {
	ID     PlayerID
	Name   string
	Colour string
	Image  string

	Head      Cell
	Direction Direction
	Segments  []Segment // 从旧到新，最后一个为蛇头
	Level     int

	// intent 最近一次收到的方向意图，在下一次 Tick 中解释
	intent Direction
}

// respawn 原地重置：新位置、单格蛇身、Level=1，保留身份、名字、颜色和头像
func (p *Player) respawn(at Cell) {
	p.Head = at
	p.Segments = []Segment{{X: at.X, Y: at.Y, Age: 1}}
	p.Level = 1
	p.Direction = DirNone
	p.intent = DirNone
}

// applyIntent 解释方向意图。Level > 1 时禁止直接掉头，掉头意图被忽略。
func (p *Player) applyIntent() {
	in := p.intent
	p.intent = DirNone
	if in == DirNone {
		return
	}
	if p.Level > 1 && in == p.Direction.Opposite() {
		return
	}
	p.Direction = in
}

// prune 所有 Segment 年龄加一，并移除超过 Level 的部分。蛇头总是保留。
func (p *Player) prune() {
	if len(p.Segments) <= 1 {
		return
	}
	last := len(p.Segments) - 1
	kept := p.Segments[:0]
	for i, s := range p.Segments {
		s.Age++
		if s.Age > p.Level && i != last {
			continue
		}
		kept = append(kept, s)
	}
	p.Segments = kept
}

func (p *Player) occupies(c Cell) bool {
	for _, s := range p.Segments {
		if s.X == c.X && s.Y == c.Y {
			return true
		}
	}
	return false
}
