package file

type (
	Variant struct {
		TransportFileID string `json:"transport_file_id"`
		SizeBytes       uint64 `json:"size_bytes"`
		Width           int    `json:"width"`
		Height          int    `json:"height"`
	}
	// UploadRequest is the upload event forwarded by the transport side.
	UploadRequest struct {
		UserID   int64     `json:"user_id"`
		Kind     string    `json:"kind"`
		FileName string    `json:"file_name"`
		MimeType string    `json:"mime_type"`
		Variants []Variant `json:"variants"`
	}
	DownloadRequest struct {
		UserID int64 `json:"user_id"`
	}
)
