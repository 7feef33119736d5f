package models

import (
	"time"
)

// EventLog represents the event log entity
type EventLog struct {
	ID          int64         `json:"id"`
	Type        EEventLogType `json:"type"`
	Description string        `json:"description"`
	Username    *string       `json:"username,omitempty"`
	Album       *string       `json:"album,omitempty"`
	Image       *string       `json:"image,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
}
