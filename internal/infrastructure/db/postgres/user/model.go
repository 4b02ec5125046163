package user

import (
	"time"
)

type (
	User struct {
		ID        int64
		Username  string
		FirstName string

		JoinedAt       time.Time
		TotalUploads   uint64
		TotalDownloads uint64
		IsVerified     bool
	}
)
