package file

import (
	"time"

	"filelink-api/internal/domain/user"
)

const IDPrefix = "FILE_"

type (
	File struct {
		FileID          string
		TransportFileID string
		FileName        string
		SizeBytes       uint64
		MimeType        string
		UploaderID      user.ID

		UploadedAt    time.Time
		DownloadCount uint64
		IsActive      bool
	}
	Files []*File
)
