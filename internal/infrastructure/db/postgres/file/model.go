package file

import (
	"time"
)

type (
	File struct {
		FileID          string
		TransportFileID string
		FileName        string
		SizeBytes       uint64
		MimeType        string
		UploaderID      int64

		UploadedAt    time.Time
		DownloadCount uint64
		IsActive      bool
	}
	Files []*File
)
