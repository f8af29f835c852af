package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/ambergeldar/video-chat/internal/core"
	"github.com/ambergeldar/video-chat/internal/domain"
)

// OnAudio forwards one microphone frame to the session's transcription link.
// Frames from connections without an open link fall on the floor; the client
// was told to wait for can-open-mic before capturing.
func (o *Orchestrator) OnAudio(sid core.SessionID, frame core.Frame) {
	link, ok := o.Registry.LinkOf(sid)
	if !ok {
		return
	}
	if err := link.SendAudio(frame); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("audio forward")
	}
}

// openLink starts a transcription stream scoped to sid and its room. The
// open signal goes to sid alone; results are broadcast to the whole room,
// attributed to sid. A link the upstream drops simply stops producing
// results, it is not reopened.
func (o *Orchestrator) openLink(sid core.SessionID, room domain.RoomID) {
	link := o.Links.Open(sid, core.LinkEvents{
		OnOpen: func() {
			o.sendTo(sid, struct {
				Type string `json:"type"`
			}{"can-open-mic"})
		},
		OnResult: func(result json.RawMessage) {
			env := struct {
				Type   string          `json:"type"`
				ID     core.SessionID  `json:"id"`
				Result json.RawMessage `json:"result"`
			}{"transcript-result", sid, result}
			b, err := json.Marshal(env)
			if err != nil {
				log.Error().Err(err).Str("module", "orch").Msg("transcript envelope marshal")
				return
			}
			o.Rooms.Broadcast(room, "", b)
		},
		OnClosed: func() {
			log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("transcription link closed")
		},
	})
	o.Registry.BindLink(sid, link)
}
