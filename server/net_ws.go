package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"snakearena/game"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	// 头像可能是 base64 图片，读取上限放宽到 1MB
	maxMessageSize = 1 << 20
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws    *websocket.Conn
	codec Codec
	send  chan Frame

	done      chan struct{}
	closeOnce sync.Once
}

func NewClientConn(ws *websocket.Conn, codec Codec, queue int) *ClientConn {
	return &ClientConn{
		ws:    ws,
		codec: codec,
		send:  make(chan Frame, queue),
		done:  make(chan struct{}),
	}
}

func (c *ClientConn) Codec() Codec { return c.codec }

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃，防止阻塞 Tick）
func (c *ClientConn) Enqueue(f Frame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- f:
		return true
	default:
		return false
	}
}

// Close 关闭底层连接，可重复调用；send 通道不关闭，写协程通过 done 退出
func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case f := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(f.Type, f.Data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息并转交房间；退出时触发断开
func (c *ClientConn) readPump(room *Room, id game.PlayerID) {
	defer c.Close()
	defer room.OnDisconnect(id)
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		msgType, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Debugw("read error", "player", id, "err", err)
			}
			return
		}
		im, err := DecodeInput(msgType, payload)
		if err != nil {
			room.metrics.IncIgnored()
			continue
		}
		room.Dispatch(id, im)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：/ws?room=room-1&codec=msgpack&autojoin=1
// 连接标识由服务端生成，通过 welcome 消息下发
func (m *RoomManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomID := q.Get("room")
	if roomID == "" {
		roomID = m.cfg.DefaultRoom
	}
	codec := ParseCodec(strings.ToLower(q.Get("codec")))
	autoJoin := q.Get("autojoin") == "1" || q.Get("autojoin") == "true"

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("upgrade error", "err", err)
		return
	}

	id := game.PlayerID(uuid.NewString())
	client := NewClientConn(ws, codec, m.cfg.SendQueue)
	room := m.AttachSession(roomID, id, client)
	if autoJoin {
		room.OnJoin(id)
	}

	go client.writePump()
	go client.readPump(room, id)
}
