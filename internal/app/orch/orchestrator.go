// Package orch owns the per-connection lifecycle: admission, signaling relay,
// transcription link wiring and disconnect teardown.
package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/ambergeldar/video-chat/internal/app"
	"github.com/ambergeldar/video-chat/internal/core"
	"github.com/ambergeldar/video-chat/internal/domain"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.Rooms
	Links    core.LinkOpener
}

// Relay forwards a negotiation envelope to the target connection, verbatim.
// The payload is opaque here; its structure belongs to the peers. A target
// that is not connected drops the message silently.
func (o *Orchestrator) Relay(kind string, from, target core.SessionID, payload json.RawMessage) {
	sess, ok := o.Registry.GetSession(target)
	if !ok {
		log.Debug().Str("module", "orch").Str("kind", kind).Str("target", string(target)).Msg("relay target not connected, dropping")
		return
	}
	env := struct {
		Type    string          `json:"type"`
		From    core.SessionID  `json:"from"`
		Payload json.RawMessage `json:"payload"`
	}{kind, from, payload}
	o.trySend(sess, env)
}

// sendTo delivers an envelope to one connection by ID, best effort.
func (o *Orchestrator) sendTo(sid core.SessionID, v any) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	o.trySend(sess, v)
}

func (o *Orchestrator) trySend(sess core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("envelope marshal")
		return
	}
	if err := sess.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "orch").Msg("send dropped")
	}
}

// notifyPeers announces a membership event to the other members of the room.
func (o *Orchestrator) notifyPeers(room domain.RoomID, sid core.SessionID, event string) {
	env := struct {
		Type string         `json:"type"`
		ID   core.SessionID `json:"id"`
	}{event, sid}
	b, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("envelope marshal")
		return
	}
	o.Rooms.Broadcast(room, sid, b)
}
