package server

import "snakearena/game"

// Conn 房间向连接发送数据的最小接口，便于测试替换
type Conn interface {
	Codec() Codec
	// Enqueue 非阻塞入队，队列满时丢弃并返回 false
	Enqueue(f Frame) bool
	Close()
}

// Session 一个连接在房间内的会话；玩家实体本身在 game.World 中
type Session struct {
	ID   game.PlayerID
	Conn Conn
}

// send 按会话编码发送消息
func (s *Session) send(fc *frameCache) bool {
	f, err := fc.get(s.Conn.Codec())
	if err != nil {
		Log.Errorw("encode frame", "player", s.ID, "err", err)
		return false
	}
	return s.Conn.Enqueue(f)
}
