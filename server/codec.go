package server

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"snakearena/game"
)

// Codec 连接使用的编码：默认 JSON 文本帧，msgpack 使用二进制帧
type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgpack Codec = "msgpack"
)

// ParseCodec 未知值按 JSON 处理
func ParseCodec(s string) Codec {
	if s == string(CodecMsgpack) {
		return CodecMsgpack
	}
	return CodecJSON
}

// Frame 一条待发送的 WebSocket 消息
type Frame struct {
	Type int // websocket.TextMessage / websocket.BinaryMessage
	Data []byte
}

// 出站消息
type stateMessage struct {
	Type          string `json:"type" msgpack:"type"`
	game.Snapshot `msgpack:",inline"`
}

type diedMessage struct {
	Type string `json:"type" msgpack:"type"`
}

type welcomeMessage struct {
	Type     string `json:"type" msgpack:"type"`
	ID       string `json:"id" msgpack:"id"`
	Room     string `json:"room" msgpack:"room"`
	CellSize int    `json:"cellSize" msgpack:"cellSize"`
	Width    int    `json:"width" msgpack:"width"`
	Height   int    `json:"height" msgpack:"height"`
	TickRate int    `json:"tickRate" msgpack:"tickRate"`
}

// Encode 按编码序列化任意出站消息
func (c Codec) Encode(v any) (Frame, error) {
	switch c {
	case CodecMsgpack:
		b, err := msgpack.Marshal(v)
		if err != nil {
			return Frame{}, fmt.Errorf("msgpack encode: %w", err)
		}
		return Frame{Type: websocket.BinaryMessage, Data: b}, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return Frame{}, fmt.Errorf("json encode: %w", err)
		}
		return Frame{Type: websocket.TextMessage, Data: b}, nil
	}
}

// DecodeInput 按帧类型解析入站消息：文本帧为 JSON，二进制帧为 msgpack
func DecodeInput(msgType int, payload []byte) (InputMessage, error) {
	var im InputMessage
	var err error
	if msgType == websocket.BinaryMessage {
		err = msgpack.Unmarshal(payload, &im)
	} else {
		err = json.Unmarshal(payload, &im)
	}
	if err != nil {
		return InputMessage{}, fmt.Errorf("decode input: %w", err)
	}
	return im, nil
}

// frameCache 同一 Tick 内每种编码只序列化一次
type frameCache struct {
	msg    any
	frames map[Codec]Frame
}

func newFrameCache(msg any) *frameCache {
	return &frameCache{msg: msg, frames: make(map[Codec]Frame, 2)}
}

func (fc *frameCache) get(c Codec) (Frame, error) {
	if f, ok := fc.frames[c]; ok {
		return f, nil
	}
	f, err := c.Encode(fc.msg)
	if err != nil {
		return Frame{}, err
	}
	fc.frames[c] = f
	return f, nil
}
