package chat

const sendBuffer = 256

// Conn 是协调器视角下的一条活跃连接：一个 ID 加一个出站事件队列。
// 事件投递到 send 通道为止，真正写到网络是传输层的职责。
type Conn struct {
	id   string
	send chan []byte
}

func (c *Conn) ID() string {
	return c.id
}

// Events 返回出站事件通道，传输层从这里取已编码好的事件写给客户端。
// 连接被协调器移除时通道会被关闭。
func (c *Conn) Events() <-chan []byte {
	return c.send
}
