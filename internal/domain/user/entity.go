package user

import (
	"time"
)

type (
	// ID is the transport principal id (a Telegram user id).
	ID   int64
	User struct {
		ID        ID
		Username  string
		FirstName string

		JoinedAt       time.Time
		TotalUploads   uint64
		TotalDownloads uint64
		IsVerified     bool
	}
	Users []*User

	// Patch carries the fields of an upsert; nil fields keep the stored value.
	Patch struct {
		ID         ID
		Username   *string
		FirstName  *string
		IsVerified *bool
	}
)
