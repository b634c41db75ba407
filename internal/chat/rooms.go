package chat

// MembershipTable 维护房间到当前成员连接的映射，成员按加入顺序保存。
// 一条连接同时只属于一个房间这条约束由协调器的协议保证，这里不做校验。
// 非并发安全，调用方（协调器）负责加锁。
type MembershipTable struct {
	rooms map[string][]string
}

func NewMembershipTable() *MembershipTable {
	return &MembershipTable{rooms: make(map[string][]string)}
}

// Join 把连接加入房间并返回加入后的成员快照（含新成员，按加入顺序）。
// 已在房间内时不产生重复条目。
func (t *MembershipTable) Join(roomID, connID string) []string {
	members := t.rooms[roomID]
	for _, id := range members {
		if id == connID {
			return t.snapshot(members)
		}
	}
	members = append(members, connID)
	t.rooms[roomID] = members
	return t.snapshot(members)
}

// Leave 把连接移出房间，不在房间内时为无操作。空房间条目会被清理。
func (t *MembershipTable) Leave(roomID, connID string) {
	members := t.rooms[roomID]
	for i, id := range members {
		if id == connID {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) == 0 {
		delete(t.rooms, roomID)
		return
	}
	t.rooms[roomID] = members
}

// MembersOf 返回房间成员连接 ID 的快照，供广播时解析目标集合。
func (t *MembershipTable) MembersOf(roomID string) []string {
	return t.snapshot(t.rooms[roomID])
}

func (t *MembershipTable) snapshot(members []string) []string {
	out := make([]string, len(members))
	copy(out, members)
	return out
}
