package entity

import "time"

// User is created on the first observed interaction and identified by the
// opaque external id the chat layer supplies.
type User struct {
	ID           string                 `db:"id" json:"id"`
	ExternalID   string                 `db:"external_id" json:"external_id"`
	RegisteredAt time.Time              `db:"registered_at" json:"registered_at"`
	Settings     map[string]interface{} `json:"settings,omitempty"`
}
