package file

import (
	"time"
)

type (
	File struct {
		FileID        string    `json:"file_id"`
		FileName      string    `json:"file_name"`
		SizeBytes     uint64    `json:"size_bytes"`
		SizeText      string    `json:"size_text"`
		MimeType      string    `json:"mime_type"`
		UploaderID    int64     `json:"uploader_id"`
		UploadedAt    time.Time `json:"uploaded_at"`
		DownloadCount uint64    `json:"download_count"`
	}
	Files        []File
	ResponseData struct {
		Data Files `json:"data"`
	}

	Links struct {
		File       File   `json:"file"`
		DirectLink string `json:"direct_link"`
		LandingURL string `json:"landing_url,omitempty"`
		Variant    string `json:"variant"`
		Premium    bool   `json:"premium"`
	}

	DownloadResponse struct {
		FileID        string `json:"file_id"`
		DownloadCount uint64 `json:"download_count"`
	}
)
