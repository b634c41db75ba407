package chat

// session 记录一条活跃连接的注册状态，仅存在于连接的生命周期内。
type session struct {
	conn       *Conn
	userID     string
	username   string
	roomID     string
	identified bool
}

// Registry 是活跃连接的登记表：连接什么时候注册、绑定了谁、最后在哪个房间。
// 不做任何广播。非并发安全，调用方（协调器）负责加锁。
type Registry struct {
	sessions map[string]*session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session)}
}

// Register 登记一条新连接。同一 ID 重复登记是调用方的编程错误。
func (r *Registry) Register(c *Conn) error {
	if _, ok := r.sessions[c.id]; ok {
		return ErrDuplicateConnection
	}
	r.sessions[c.id] = &session{conn: c}
	return nil
}

// BindIdentity 绑定连接归属的用户身份，此后连接进入 Identified 状态。
func (r *Registry) BindIdentity(connID, userID, username string) error {
	sess, ok := r.sessions[connID]
	if !ok {
		return ErrUnknownConnection
	}
	sess.userID = userID
	sess.username = username
	sess.identified = true
	return nil
}

// Get 返回连接对应的会话，未注册时返回 nil。
func (r *Registry) Get(connID string) *session {
	return r.sessions[connID]
}

// Unregister 移除连接并返回它最后所在的房间 ID（从未加入过房间则为空串）。
// 对未注册的 ID 调用是安全的。
func (r *Registry) Unregister(connID string) string {
	sess, ok := r.sessions[connID]
	if !ok {
		return ""
	}
	delete(r.sessions, connID)
	return sess.roomID
}

// Len 返回当前登记的连接数。
func (r *Registry) Len() int {
	return len(r.sessions)
}
