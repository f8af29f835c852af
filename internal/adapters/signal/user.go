package signal

import (
	"github.com/ambergeldar/video-chat/internal/core"
	"github.com/ambergeldar/video-chat/internal/domain"
)

// handleWhoAmI tells the client its server-assigned connection ID, which
// peers use as the relay target for negotiation messages.
func (ctl *SignalWSController) handleWhoAmI(
	sid core.SessionID,
	conn *wsSignalConn,
) {
	resp := struct {
		Type string         `json:"type"`
		ID   core.SessionID `json:"id"`
		Room domain.RoomID  `json:"room,omitempty"`
	}{
		Type: "whoami",
		ID:   sid,
	}
	if room, ok := ctl.Orch.Registry.RoomOf(sid); ok {
		resp.Room = room
	}
	ctl.sendJSON(conn, resp)
}
