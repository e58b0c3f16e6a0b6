package answers

import "time"

// AnswerID identifier type
type AnswerID string

// Answer represents a grounded Q&A exchange stored for auditing and retrieval
type Answer struct {
	ID        AnswerID  `json:"id"`
	TenantID  string    `json:"tenant_id"`
	RunID     string    `json:"run_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
