package user

import (
	"time"
)

type (
	User struct {
		UserID         int64     `json:"user_id"`
		Username       string    `json:"username"`
		FirstName      string    `json:"first_name"`
		JoinedAt       time.Time `json:"joined_at"`
		TotalUploads   uint64    `json:"total_uploads"`
		TotalDownloads uint64    `json:"total_downloads"`
		IsVerified     bool      `json:"is_verified"`
	}
	// Request fields left null keep their stored value.
	Request struct {
		Username   *string `json:"username"`
		FirstName  *string `json:"first_name"`
		IsVerified *bool   `json:"is_verified"`
	}
)
