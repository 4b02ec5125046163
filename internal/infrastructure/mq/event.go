package mq

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys of published domain events.
const (
	FileUploaded   = "file.uploaded"
	FileDownloaded = "file.downloaded"
	PremiumGranted = "premium.granted"
	PremiumRevoked = "premium.revoked"
)

type Event struct {
	Id        uuid.UUID `json:"event_id"`
	TS        time.Time `json:"time_stamp"`
	Type      string    `json:"event_type"`
	Principal int64     `json:"user_id"`
	Payload   any       `json:"payload"`
}

func NewEvent(eventType string, principal int64, payload any) Event {
	return Event{
		Id:        uuid.New(),
		TS:        time.Now().UTC(),
		Type:      eventType,
		Principal: principal,
		Payload:   payload,
	}
}
