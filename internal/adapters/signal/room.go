package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/ambergeldar/video-chat/internal/core"
	"github.com/ambergeldar/video-chat/internal/domain"
)

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("join")
	if err := ctl.Orch.Join(sid, domain.RoomID(p.Room)); err != nil {
		if errors.Is(err, domain.ErrRoomFull) {
			ctl.sendJSON(conn, struct {
				Type string `json:"type"`
				Room string `json:"room"`
			}{"full", p.Room})
			return
		}
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join failed")
	}
}
