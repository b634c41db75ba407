package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"chatserver/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Coordinator 实现连接的会话协议：Anonymous → Identified → InRoom。
// 一把互斥锁串行化所有对注册表和成员表的修改，每个协议步骤（加入、
// 发送、离开、断开）相对其他步骤原子；持久化调用一律在锁外进行，
// 所以并发的发送互不等待。广播目标集合总是在广播时刻解析。
type Coordinator struct {
	mu       sync.Mutex
	store    Store
	registry *Registry
	rooms    *MembershipTable
	maxBody  int
	history  int
}

func NewCoordinator(store Store, maxMessageBytes, historyLimit int) *Coordinator {
	if maxMessageBytes <= 0 {
		maxMessageBytes = 4096
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Coordinator{
		store:    store,
		registry: NewRegistry(),
		rooms:    NewMembershipTable(),
		maxBody:  maxMessageBytes,
		history:  historyLimit,
	}
}

// Connect 登记一条新连接并返回其句柄，初始状态为 Anonymous。
func (co *Coordinator) Connect() (*Conn, error) {
	c := &Conn{id: uuid.NewString(), send: make(chan []byte, sendBuffer)}
	co.mu.Lock()
	defer co.mu.Unlock()
	if err := co.registry.Register(c); err != nil {
		return nil, err
	}
	metrics.WsConnections.Inc()
	return c, nil
}

// Identify 通过持久层解析用户并绑定到连接上。绑定之前任何房间命令都会被拒绝。
func (co *Coordinator) Identify(c *Conn, userID string) error {
	u, err := co.store.GetUser(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if u == nil {
		return ErrUnknownUser
	}
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.registry.BindIdentity(c.id, u.ID, u.Username)
}

// JoinRoom 把连接切入目标房间。已在其他房间时先原子地退出旧房间：
// 旧房间的剩余成员收到 left，新房间的既有成员收到 joined，
// 加入者自己收到携带历史消息和成员列表的 room_joined。
func (co *Coordinator) JoinRoom(c *Conn, roomID string) error {
	room, err := co.store.GetRoom(roomID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if room == nil {
		return ErrUnknownRoom
	}
	history, err := co.store.ListMessages(roomID, co.history)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	co.mu.Lock()
	defer co.mu.Unlock()
	sess := co.registry.Get(c.id)
	if sess == nil {
		return ErrUnknownConnection
	}
	if !sess.identified {
		return ErrNotIdentified
	}
	now := time.Now().UTC()

	if sess.roomID == roomID {
		// 重复加入当前房间：不动成员表，只重发快照。
		co.deliverLocked([]string{c.id}, co.roomJoinedPayload(roomID, history, co.rooms.MembersOf(roomID)))
		return nil
	}
	if prev := sess.roomID; prev != "" {
		co.rooms.Leave(prev, c.id)
		sess.roomID = ""
		co.deliverLocked(co.rooms.MembersOf(prev), presencePayload(prev, sess.username, PresenceLeft, now))
	}
	memberIDs := co.rooms.Join(roomID, c.id)
	sess.roomID = roomID

	others := make([]string, 0, len(memberIDs)-1)
	for _, id := range memberIDs {
		if id != c.id {
			others = append(others, id)
		}
	}
	co.deliverLocked(others, presencePayload(roomID, sess.username, PresenceJoined, now))
	co.deliverLocked([]string{c.id}, co.roomJoinedPayload(roomID, history, memberIDs))
	return nil
}

// SendMessage 校验、持久化并广播一条消息。持久化成功之前绝不广播；
// 失败只报告给发送方，连接保持在房间内可以重试。
func (co *Coordinator) SendMessage(c *Conn, content string) error {
	if strings.TrimSpace(content) == "" || len(content) > co.maxBody {
		return ErrInvalidMessage
	}
	co.mu.Lock()
	sess := co.registry.Get(c.id)
	if sess == nil {
		co.mu.Unlock()
		return ErrUnknownConnection
	}
	if !sess.identified {
		co.mu.Unlock()
		return ErrNotIdentified
	}
	if sess.roomID == "" {
		co.mu.Unlock()
		return ErrNotInRoom
	}
	rec := MessageRecord{
		ID:        uuid.NewString(),
		RoomID:    sess.roomID,
		UserID:    sess.userID,
		Username:  sess.username,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	co.mu.Unlock()

	if err := co.store.CreateMessage(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	metrics.WsMessagesTotal.Inc()

	payload, _ := json.Marshal(messageEvent(rec))
	co.mu.Lock()
	defer co.mu.Unlock()
	co.deliverLocked(co.rooms.MembersOf(rec.RoomID), payload)
	return nil
}

// Typing 向房间广播输入状态，不持久化。
func (co *Coordinator) Typing(c *Conn, isTyping bool) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	sess := co.registry.Get(c.id)
	if sess == nil {
		return ErrUnknownConnection
	}
	if !sess.identified {
		return ErrNotIdentified
	}
	if sess.roomID == "" {
		return ErrNotInRoom
	}
	payload, _ := json.Marshal(TypingEvent{Type: EventTyping, RoomID: sess.roomID, Username: sess.username, IsTyping: isTyping})
	co.deliverLocked(co.rooms.MembersOf(sess.roomID), payload)
	return nil
}

// LeaveRoom 退出当前房间，剩余成员收到 left，连接回到 Identified 状态。
func (co *Coordinator) LeaveRoom(c *Conn) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	sess := co.registry.Get(c.id)
	if sess == nil {
		return ErrUnknownConnection
	}
	if !sess.identified {
		return ErrNotIdentified
	}
	if sess.roomID == "" {
		return ErrNotInRoom
	}
	room := sess.roomID
	co.rooms.Leave(room, c.id)
	sess.roomID = ""
	co.deliverLocked(co.rooms.MembersOf(room), presencePayload(room, sess.username, PresenceLeft, time.Now().UTC()))
	return nil
}

// Disconnect 注销连接。仍在房间内时等价于先 LeaveRoom。
// 对已被移除的连接调用是安全的无操作。
func (co *Coordinator) Disconnect(c *Conn) {
	co.mu.Lock()
	defer co.mu.Unlock()
	sess := co.registry.Get(c.id)
	if sess == nil {
		return
	}
	username := sess.username
	room := co.registry.Unregister(c.id)
	if room != "" {
		co.rooms.Leave(room, c.id)
		co.deliverLocked(co.rooms.MembersOf(room), presencePayload(room, username, PresenceLeft, time.Now().UTC()))
	}
	close(c.send)
	metrics.WsConnections.Dec()
}

// Reject 只向发起命令的连接回送一个 error 事件。
func (co *Coordinator) Reject(c *Conn, err error) {
	payload, _ := json.Marshal(ErrorEvent{Type: EventError, Reason: RejectReason(err)})
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.registry.Get(c.id) == nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// Online 返回房间当前成员数，供 REST 接口复用。
func (co *Coordinator) Online(roomID string) int {
	co.mu.Lock()
	defer co.mu.Unlock()
	return len(co.rooms.MembersOf(roomID))
}

// deliverLocked 把编码好的事件投递到目标连接的出站队列。
// 队列已满的连接视为慢消费者：当场移除并向其房间补发 left。
// 调用方必须持有 co.mu。
func (co *Coordinator) deliverLocked(targets []string, payload []byte) {
	var dropped []*session
	for _, id := range targets {
		sess := co.registry.Get(id)
		if sess == nil {
			continue
		}
		select {
		case sess.conn.send <- payload:
		default:
			dropped = append(dropped, sess)
		}
	}
	for _, sess := range dropped {
		if co.registry.Get(sess.conn.id) == nil {
			continue
		}
		room := sess.roomID
		if room != "" {
			co.rooms.Leave(room, sess.conn.id)
		}
		co.registry.Unregister(sess.conn.id)
		close(sess.conn.send)
		metrics.WsConnections.Dec()
		metrics.WsDroppedTotal.Inc()
		log.Warn().Str("conn_id", sess.conn.id).Str("room_id", room).Msg("slow consumer dropped")
		if room != "" {
			co.deliverLocked(co.rooms.MembersOf(room), presencePayload(room, sess.username, PresenceLeft, time.Now().UTC()))
		}
	}
}

// roomJoinedPayload 组装发给加入者的快照事件，成员名按加入顺序解析。
// 调用方必须持有 co.mu。
func (co *Coordinator) roomJoinedPayload(roomID string, history []MessageRecord, memberIDs []string) []byte {
	msgs := make([]MessageEvent, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, messageEvent(m))
	}
	members := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if sess := co.registry.Get(id); sess != nil {
			members = append(members, sess.username)
		}
	}
	payload, _ := json.Marshal(RoomJoinedEvent{Type: EventRoomJoined, RoomID: roomID, Messages: msgs, Members: members})
	return payload
}

func presencePayload(roomID, username, kind string, ts time.Time) []byte {
	payload, _ := json.Marshal(PresenceEvent{Type: EventPresence, RoomID: roomID, Username: username, Kind: kind, CreatedAt: ts})
	return payload
}
