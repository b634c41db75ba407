package chat

import "errors"

// 协议错误只回给发起命令的连接；注册表错误意味着状态已不可信，
// 由传输层断开该连接处理。
var (
	ErrDuplicateConnection = errors.New("duplicate connection")
	ErrUnknownConnection   = errors.New("unknown connection")
	ErrNotIdentified       = errors.New("not identified")
	ErrNotInRoom           = errors.New("not in a room")
	ErrInvalidMessage      = errors.New("invalid message")
	ErrUnknownRoom         = errors.New("room not found")
	ErrUnknownUser         = errors.New("user not found")
	ErrPersistence         = errors.New("persistence failure")
)

// Fatal 判断错误是否意味着连接状态已损坏，需要强制断开。
func Fatal(err error) bool {
	return errors.Is(err, ErrDuplicateConnection) || errors.Is(err, ErrUnknownConnection)
}
