package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ambergeldar/video-chat/internal/core"
	"github.com/ambergeldar/video-chat/internal/domain"
)

// Rooms is the threadsafe in-memory room registry. A room exists iff it has
// members: first admission creates it, last leave deletes it. It owns the
// membership sets but never closes adapter-owned transports.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[core.SessionID]core.SignalConnection
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[domain.RoomID]map[core.SessionID]core.SignalConnection)}
}

// Join admits sid into the room, creating it on first admission. The capacity
// check and the insert happen under one lock so concurrent joins can never
// overfill a room. Returns domain.ErrRoomFull without mutating anything when
// the room is already at MaxRoomSize.
func (r *Rooms) Join(id domain.RoomID, sid core.SessionID, conn core.SignalConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[id]
	if !ok {
		members = make(map[core.SessionID]core.SignalConnection, domain.MaxRoomSize)
		r.rooms[id] = members
	}
	if len(members) >= domain.MaxRoomSize {
		return domain.ErrRoomFull
	}
	members[sid] = conn
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("sid", string(sid)).Int("count", len(members)).Msg("member admitted")
	return nil
}

// Leave removes sid from the room. Leaving twice, or a room sid never joined,
// is a no-op. The room record is dropped when its last member leaves.
func (r *Rooms) Leave(id domain.RoomID, sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[id]
	if !ok {
		return
	}
	delete(members, sid)
	if len(members) == 0 {
		delete(r.rooms, id)
	}
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("sid", string(sid)).Msg("member left")
}

func (r *Rooms) MemberCount(id domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[id])
}

// Broadcast delivers data to every member of the room except `from`
// (empty SessionID excludes nobody). Delivery to each member is independent:
// a member whose transport rejects the frame is reported as dropped and the
// rest still receive it.
func (r *Rooms) Broadcast(id domain.RoomID, from core.SessionID, data core.Frame) core.PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := core.PublishResult{}
	for sid, conn := range r.rooms[id] {
		if sid == from {
			continue
		}
		if err := conn.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.rooms").Str("room", string(id)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *Rooms) List() []core.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for id, members := range r.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: len(members)})
	}
	return out
}
