package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestServer(t *testing.T) (*RoomManager, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TickRate = 50
	rm := NewRoomManager(cfg)
	ts := httptest.NewServer(NewRouter(rm, ""))
	t.Cleanup(func() {
		ts.Close()
		rm.Shutdown()
	})
	return rm, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?" + query
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// readUntil 读取 JSON 消息直到 match 返回 true
func readUntil(t *testing.T, ws *websocket.Conn, match func(map[string]any) bool) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var m map[string]any
		require.NoError(t, ws.ReadJSON(&m))
		if match(m) {
			return m
		}
	}
}

func TestWSJoinMoveAndReceiveState(t *testing.T) {
	rm, ts := newTestServer(t)
	ws := dial(t, ts, "room=arena")

	welcome := readUntil(t, ws, func(m map[string]any) bool { return m["type"] == "welcome" })
	id, _ := welcome["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "arena", welcome["room"])

	require.NoError(t, ws.WriteJSON(InputMessage{Type: MsgJoin}))
	require.NoError(t, ws.WriteJSON(InputMessage{Type: MsgRename, Name: "bob"}))
	require.NoError(t, ws.WriteJSON(InputMessage{Type: MsgMove, Command: "left"}))

	st := readUntil(t, ws, func(m map[string]any) bool {
		if m["type"] != "state" {
			return false
		}
		players, _ := m["players"].(map[string]any)
		p, ok := players[id].(map[string]any)
		return ok && p["name"] == "bob" && p["direction"] == "left"
	})
	assert.Greater(t, st["tick"].(float64), float64(0))

	room, ok := rm.Room("arena")
	require.True(t, ok)
	assert.Equal(t, 1, room.World().NumPlayers())

	require.NoError(t, ws.Close())
	assert.Eventually(t, func() bool {
		_, stillThere := rm.Room("arena")
		return room.NumSessions() == 0 && room.World().NumPlayers() == 0 && !stillThere
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWSAutoJoinMsgpack(t *testing.T) {
	_, ts := newTestServer(t)
	ws := dial(t, ts, "codec=msgpack&autojoin=1")

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var id string
	for {
		mt, data, err := ws.ReadMessage()
		require.NoError(t, err)
		require.Equal(t, websocket.BinaryMessage, mt)
		var m map[string]any
		require.NoError(t, msgpack.Unmarshal(data, &m))
		if m["type"] == "welcome" {
			id, _ = m["id"].(string)
			continue
		}
		if m["type"] == "state" {
			players, _ := m["players"].(map[string]any)
			require.Contains(t, players, id)
			return
		}
	}
}

func TestWSMsgpackInput(t *testing.T) {
	rm, ts := newTestServer(t)
	ws := dial(t, ts, "codec=msgpack&autojoin=1")

	b, err := msgpack.Marshal(InputMessage{Type: MsgRename, Name: "packed"})
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.BinaryMessage, b))

	assert.Eventually(t, func() bool {
		room, ok := rm.Room("")
		if !ok {
			return false
		}
		lb := room.World().Leaderboard(0)
		return len(lb) == 1 && lb[0].Name == "packed"
	}, 2*time.Second, 20*time.Millisecond)
}
