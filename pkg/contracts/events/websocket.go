// Package events defines the messages pushed to live-update clients.
package events

import "safetypulse/pkg/contracts/domain"

// ProtocolVersion is sent with the connection message
const ProtocolVersion = "1.0"

// MessageType identifies a pushed message
type MessageType string

const (
	// MessageTypeConnection is the first message a client receives
	MessageTypeConnection MessageType = "connection"
	// MessageTypeSnapshotUpdated follows every successful snapshot replace
	MessageTypeSnapshotUpdated MessageType = "snapshot:updated"
	// MessageTypeSnapshotError follows a failed foreground load
	MessageTypeSnapshotError MessageType = "snapshot:error"
)

// Message is the envelope of every frame sent to clients
type Message struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// ConnectionPayload is the data of a connection message. Snapshot is the
// status at connect time, absent when no status provider is set.
type ConnectionPayload struct {
	Status          string                 `json:"status"`
	ClientID        string                 `json:"client_id"`
	ProtocolVersion string                 `json:"protocol_version"`
	Snapshot        *domain.SnapshotStatus `json:"snapshot,omitempty"`
}
