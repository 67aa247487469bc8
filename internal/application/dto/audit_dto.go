package dto

import "time"

// AuditEntryResponse registro de auditoría.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
