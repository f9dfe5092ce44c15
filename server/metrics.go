package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount        int64 // 统计的 Tick 次数
	TotalTickNs      int64 // Tick 累计耗时（纳秒）
	MaxTickNs        int64 // 单次 Tick 最长耗时
	InputsAccepted   int64 // 被接受的输入数
	InputsIgnored    int64 // 非法方向或玩家不存在而被忽略的输入数
	Deaths           int64 // 碰撞死亡次数
	Consumed         int64 // 被吃掉的收集物数
	SnapshotsDropped int64 // 因发送队列满被丢弃的消息数
}

func (m *RoomMetrics) IncAccepted()      { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncIgnored()       { atomic.AddInt64(&m.InputsIgnored, 1) }
func (m *RoomMetrics) IncDropped()       { atomic.AddInt64(&m.SnapshotsDropped, 1) }
func (m *RoomMetrics) AddDeaths(n int)   { atomic.AddInt64(&m.Deaths, int64(n)) }
func (m *RoomMetrics) AddConsumed(n int) { atomic.AddInt64(&m.Consumed, int64(n)) }

func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
	for {
		cur := atomic.LoadInt64(&m.MaxTickNs)
		if ns <= cur || atomic.CompareAndSwapInt64(&m.MaxTickNs, cur, ns) {
			return
		}
	}
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"inputs_accepted":   atomic.LoadInt64(&m.InputsAccepted),
		"inputs_ignored":    atomic.LoadInt64(&m.InputsIgnored),
		"deaths":            atomic.LoadInt64(&m.Deaths),
		"consumed":          atomic.LoadInt64(&m.Consumed),
		"snapshots_dropped": atomic.LoadInt64(&m.SnapshotsDropped),
		"avg_tick_ms":       avgMs,
		"max_tick_ms":       float64(atomic.LoadInt64(&m.MaxTickNs)) / 1e6,
	}
}
