package models

// ChangeEvent announces that a stored collection was rewritten, so the other
// trip member's browser can reload.
type ChangeEvent struct {
	ID         string `json:"id"`
	Collection string `json:"collection"`
	Action     string `json:"action"`
	SessionID  string `json:"session_id"`
	Timestamp  int64  `json:"timestamp"`
}
