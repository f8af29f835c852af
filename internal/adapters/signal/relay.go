package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/ambergeldar/video-chat/internal/core"
)

// handleRelay forwards an offer, answer or candidate envelope to its target.
// The payload is never inspected here.
func (ctl *SignalWSController) handleRelay(sid core.SessionID, data []byte) {
	var p struct {
		Type    string          `json:"type"`
		Target  string          `json:"target"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad relay payload")
		return
	}
	ctl.Orch.Relay(p.Type, sid, core.SessionID(p.Target), p.Payload)
}
