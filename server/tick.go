package server

import "time"

// StartTicker 启动房间的 Tick 循环（单协程推进世界，Tick 之间不会重叠）
func (r *Room) StartTicker() {
	r.startOnce.Do(func() {
		go r.run(r.cfg.TickInterval())
	})
}

// Stop 结束 Tick 循环并关闭所有连接
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.quit)
		r.mu.Lock()
		for id, s := range r.sessions {
			s.Conn.Close()
			delete(r.sessions, id)
		}
		r.mu.Unlock()
	})
}

func (r *Room) run(interval time.Duration) {
	// time.Ticker 在处理慢于周期时丢弃多余的 tick，只会延后不会并发
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.runTick()
		}
	}
}

// runTick 核心循环：推进世界 → 通知死亡 → 广播快照
func (r *Room) runTick() {
	start := time.Now()
	res := r.world.Step()
	r.notifyDied(res.Died)
	r.Broadcast(res.Snapshot)

	r.metrics.AddDeaths(len(res.Died))
	r.metrics.AddConsumed(res.Consumed)
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}
