package domain

import "time"

// Notification is an in-app notification feed entry, written best-effort
// alongside email dispatch.
type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedOn  time.Time         `json:"created_on"`
	ReadOn     *time.Time        `json:"read_on,omitempty"`
}
