package server

// 入站消息类型
const (
	MsgJoin   = "join"
	MsgMove   = "move"
	MsgRename = "rename"
	MsgAvatar = "avatar"
)

// InputMessage 客户端入站消息（意图），文本帧为 JSON，二进制帧为 msgpack。
// 示例：
//
//	{"type":"move","command":"up"}
//	{"type":"rename","name":"alice"}
//	{"type":"avatar","image":"data:image/png;base64,..."}
type InputMessage struct {
	Type    string `json:"type" msgpack:"type"`
	Command string `json:"command,omitempty" msgpack:"command,omitempty"`
	Name    string `json:"name,omitempty" msgpack:"name,omitempty"`
	Image   string `json:"image,omitempty" msgpack:"image,omitempty"`
}
