package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/ambergeldar/video-chat/internal/core"
	"github.com/ambergeldar/video-chat/internal/domain"
)

// Join admits sid into roomID. On success the existing peer is told about the
// newcomer and a transcription link is opened for it. Returns
// domain.ErrRoomFull when the room is at capacity; the caller stays unrooted
// and may retry with another room.
func (o *Orchestrator) Join(sid core.SessionID, roomID domain.RoomID) error {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("join from unknown session")
		return nil
	}
	if prev, ok := o.Registry.RoomOf(sid); ok {
		o.detach(sid, prev)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(prev)).Msg("left previous room on join")
	}
	if err := o.Rooms.Join(roomID, sid, sess); err != nil {
		return err
	}
	o.Registry.UpdateRoom(sid, roomID)
	o.notifyPeers(roomID, sid, "user-joined")
	o.openLink(sid, roomID)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("admitted")
	return nil
}

// Disconnect tears the connection down: peers are told, membership is
// released, the transcription link (if any) is closed. Terminal; there is no
// reconnect.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	if room, ok := o.Registry.RoomOf(sid); ok {
		o.detach(sid, room)
	}
	o.Registry.Unbind(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnected")
}

// detach removes sid from room, announcing the departure and closing its
// link. The registry binding itself stays so the connection can rejoin.
func (o *Orchestrator) detach(sid core.SessionID, room domain.RoomID) {
	if link, ok := o.Registry.TakeLink(sid); ok {
		link.Close()
	}
	o.Rooms.Leave(room, sid)
	o.Registry.ClearRoom(sid)
	o.notifyPeers(room, sid, "bye")
}
