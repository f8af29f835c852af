package core

import (
	"encoding/json"

	"github.com/ambergeldar/video-chat/internal/domain"
)

// Frame is a raw binary payload (an audio chunk or an encoded envelope).
type Frame []byte

type SessionID string

// SignalConnection abstracts the client-facing messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// TranscriptionLink is one streaming session to the speech service.
// It is owned by exactly one connection and never outlives it.
// SendAudio forwards only while the link is open; everything else is
// discarded. Close is idempotent.
type TranscriptionLink interface {
	SendAudio(Frame) error
	Close()
}

// LinkEvents are the callbacks an owner wires before opening a link.
// OnOpen fires at most once, when the upstream stream is ready for audio.
// OnResult fires once per decoded upstream message, in arrival order.
type LinkEvents struct {
	OnOpen   func()
	OnResult func(result json.RawMessage)
	OnClosed func()
}

// LinkOpener opens transcription links; swapped for a fake in tests.
type LinkOpener interface {
	Open(sid SessionID, ev LinkEvents) TranscriptionLink
}

// PublishResult reports delivery stats to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// RoomInfo is a read-only view for APIs (no transport fields).
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"member_count"`
}
