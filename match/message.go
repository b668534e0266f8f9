package match

import (
	"go.creack.net/robotwar/engine"
)

// MessageType enum type.
type MessageType int

// MessageType values.
const (
	_ MessageType = iota
	MsgDebug
	MsgError
	MsgStatus
	MsgEvent
	MsgCompileError
	MsgGameOver
)

func (mt MessageType) String() string {
	switch mt {
	case MsgDebug:
		return "Debug"
	case MsgError:
		return "Error"
	case MsgStatus:
		return "Status"
	case MsgEvent:
		return "Event"
	case MsgCompileError:
		return "Compile Error"
	case MsgGameOver:
		return "Game Over"
	default:
		return "Unknown"
	}
}

// Message is what the match tells its viewers.
type Message struct {
	Type    MessageType
	RobotID string
	Event   engine.Event // Set for MsgEvent.
	Message string
}

// NewMessage creates a message.
func NewMessage(mt MessageType, robotID, msg string) Message {
	return Message{
		Type:    mt,
		RobotID: robotID,
		Message: msg,
	}
}

func eventMessage(ev engine.Event) Message {
	return Message{
		Type:    MsgEvent,
		RobotID: ev.RobotID,
		Event:   ev,
		Message: ev.String(),
	}
}
