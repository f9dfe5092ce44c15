package game

import "sort"

// Outcome 单个玩家在一次 Tick 中的移动结果
type Outcome int

const (
	OutcomeIdle Outcome = iota
	OutcomeAdvanced
	OutcomeDied
)

// TickResult 一次 Tick 的产出：推进后的快照，以及本 Tick 死亡的玩家
type TickResult struct {
	Snapshot Snapshot
	Died     []PlayerID
	Consumed int
}

// Step 推进一个 Tick。调用方保证同一 World 上的 Step 不会并发执行。
func (w *World) Step() TickResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	var res TickResult
	for _, id := range w.orderedIDs() {
		p := w.players[id]

		if w.pickup(p) {
			res.Consumed++
		}

		p.applyIntent()
		if p.Direction == DirNone {
			p.prune()
			continue
		}

		next := w.grid.Next(p.Head, p.Direction, w.opts.Wrap)
		if w.resolveMove(p, next) == OutcomeDied {
			res.Died = append(res.Died, id)
			continue
		}
		p.prune()
	}

	w.spawnCollectible()
	w.tick++
	res.Snapshot = w.snapshotLocked()
	return res
}

// orderedIDs 固定的遍历顺序，避免 map 随机顺序影响同一 Tick 内的结果
func (w *World) orderedIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(w.players))
	for id := range w.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// pickup 使用移动前的蛇头判断是否吃到收集物，每个 Tick 最多吃一个
func (w *World) pickup(p *Player) bool {
	for i, c := range w.collectibles {
		if c == p.Head {
			w.collectibles = append(w.collectibles[:i], w.collectibles[i+1:]...)
			p.Level++
			return true
		}
	}
	return false
}

// resolveMove 候选格子被占用或越界则死亡并立即重生，否则前进并追加新 Segment。
// 即将在本 Tick 被修剪掉的尾部仍视为占用。
func (w *World) resolveMove(p *Player, next Cell) Outcome {
	if w.isOccupied(next) {
		w.log.Infow("player crashed", "player", p.ID, "x", next.X, "y", next.Y, "level", p.Level)
		p.respawn(w.spawnCell())
		return OutcomeDied
	}
	p.Head = next
	p.Segments = append(p.Segments, Segment{X: next.X, Y: next.Y})
	return OutcomeAdvanced
}

func (w *World) spawnCollectible() {
	if len(w.collectibles) >= w.opts.MaxCollectibles {
		return
	}
	w.collectibles = append(w.collectibles, w.randomCell())
}
