package entity

import "time"

type DialogStage string

const (
	StageIdle                  DialogStage = "idle"
	StageAwaitingClarification DialogStage = "awaiting_clarification"
)

// DialogState is the per-user conversation state. It is created on the first
// ambiguous extraction, mutated on each clarifying answer and destroyed on
// successful persistence or abandonment.
type DialogState struct {
	UserID  string               `json:"user_id"`
	Stage   DialogStage          `json:"stage"`
	Partial CandidateTransaction `json:"partial"`
	Retries int                  `json:"retries"`
	// Missing and Invalid name the fields the next clarification must resolve.
	Missing []string          `json:"missing,omitempty"`
	Invalid map[string]string `json:"invalid,omitempty"`
	// Pending holds an already-validated transaction whose insert failed, so
	// the next turn retries persistence without re-asking the user.
	Pending      *Transaction `json:"pending,omitempty"`
	LastActivity time.Time    `json:"last_activity"`
}
