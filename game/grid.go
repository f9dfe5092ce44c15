package game

// Cell 网格坐标（格子单位，不是像素）
type Cell struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Direction 移动方向
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return ""
	}
}

// ParseDirection 解析客户端方向字符串，非法值返回 false
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	default:
		return DirNone, false
	}
}

// Opposite 返回相反方向；DirNone 的相反方向仍是 DirNone
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

func (d Direction) delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Grid 有界网格：Width × Height 个格子
type Grid struct {
	Width  int
	Height int
}

// InBounds 0 <= x < Width 且 0 <= y < Height
func (g Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// wrap 单轴环绕：小于 0 映射到 length-1，大于等于 length 映射到 0
func wrap(coord, length int) int {
	if coord < 0 {
		return length - 1
	}
	if coord >= length {
		return 0
	}
	return coord
}

// Next 计算从 c 沿 d 移动一格后的候选格子。
// wrap 关闭时不做修正，越界结果由调用方按碰撞处理。
func (g Grid) Next(c Cell, d Direction, wrapAround bool) Cell {
	dx, dy := d.delta()
	n := Cell{X: c.X + dx, Y: c.Y + dy}
	if wrapAround {
		n.X = wrap(n.X, g.Width)
		n.Y = wrap(n.Y, g.Height)
	}
	return n
}
