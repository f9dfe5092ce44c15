package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snakearena/game"
)

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminConfigGetAndPost(t *testing.T) {
	rm := NewRoomManager(DefaultConfig())
	defer rm.Shutdown()
	h := NewRouter(rm, "")
	rm.GetOrCreateRoom("r1")

	rec := doRequest(t, h, http.MethodGet, "/admin/config?room=r1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["wrap"])
	assert.Equal(t, float64(1), got["maxCollectibles"])
	assert.Equal(t, float64(12), got["tickRate"])

	rec = doRequest(t, h, http.MethodPost, "/admin/config?room=r1", `{"wrap":false,"maxCollectibles":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	room, ok := rm.Room("r1")
	require.True(t, ok)
	assert.Equal(t, game.Options{Wrap: false, MaxCollectibles: 3}, room.World().Options())
}

func TestAdminConfigUnknownRoomNotCreated(t *testing.T) {
	rm := NewRoomManager(DefaultConfig())
	defer rm.Shutdown()
	h := NewRouter(rm, "")

	for i := 0; i < 20; i++ {
		target := "/admin/config?room=junk-" + strconv.Itoa(i)
		rec := doRequest(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = doRequest(t, h, http.MethodPost, target, `{"wrap":false}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.Empty(t, rm.ListRooms())
}

func TestAdminConfigRejectsBadBody(t *testing.T) {
	rm := NewRoomManager(DefaultConfig())
	defer rm.Shutdown()
	h := NewRouter(rm, "")
	rm.GetOrCreateRoom("")

	rec := doRequest(t, h, http.MethodPost, "/admin/config", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/admin/config", `{"maxCollectibles":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/admin/config", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsAndLeaderboard(t *testing.T) {
	rm := NewRoomManager(DefaultConfig())
	defer rm.Shutdown()
	h := NewRouter(rm, "")

	rec := doRequest(t, h, http.MethodGet, "/metrics?room=nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	room := rm.GetOrCreateRoom("r1")
	room.Attach("a", newFakeConn(CodecJSON))
	room.Attach("b", newFakeConn(CodecJSON))
	room.OnJoin("a")
	room.OnJoin("b")
	room.OnRename("a", "alice")

	rec = doRequest(t, h, http.MethodGet, "/metrics?room=r1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "r1", m["room"])
	assert.Equal(t, float64(2), m["players"])

	rec = doRequest(t, h, http.MethodGet, "/leaderboard?room=r1&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lb []game.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lb))
	assert.Len(t, lb, 1)

	rec = doRequest(t, h, http.MethodGet, "/leaderboard?room=r1&limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []RoomInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "r1", rooms[0].ID)
	assert.Equal(t, 2, rooms[0].Sessions)

	rec = doRequest(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, "ok", rec.Body.String())
}
