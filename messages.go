package server

import (
	"encoding/json"
	"time"
)

// joinResponse seeds a new session with everything needed to render: the
// current dynamic snapshot plus the static layout (nil before region select).
type joinResponse struct {
	Ver      int             `json:"ver"`
	ID       string          `json:"id"`
	Snapshot Snapshot        `json:"snapshot"`
	Layout   *LayoutSnapshot `json:"layout,omitempty"`
}

// stateMessage is the per-frame broadcast. Layout is included only on the
// frame after region selection so late subscribers are not starved of it.
type stateMessage struct {
	Ver        int             `json:"ver"`
	Type       string          `json:"type"`
	Snapshot   Snapshot        `json:"snapshot"`
	Layout     *LayoutSnapshot `json:"layout,omitempty"`
	ServerTime int64           `json:"serverTime"`
}

// MarshalInitialState renders the state message a fresh subscriber receives
// before the broadcast loop takes over.
func MarshalInitialState(snap Snapshot, layout *LayoutSnapshot) ([]byte, error) {
	return json.Marshal(stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		Snapshot:   snap,
		Layout:     layout,
		ServerTime: time.Now().UnixMilli(),
	})
}

type diagnosticsSession struct {
	ID            string `json:"id"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}

type diagnosticsMessage struct {
	Frame           uint64               `json:"frame"`
	Phase           string               `json:"phase"`
	Day             int                  `json:"day"`
	TimeOfDay       int                  `json:"timeOfDay"`
	PendingCommands int                  `json:"pendingCommands"`
	Sessions        []diagnosticsSession `json:"sessions"`
}
