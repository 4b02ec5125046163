package file

const (
	InsertFile = `
		INSERT INTO files (file_id, transport_file_id, file_name, size_bytes, mime_type, uploader_id, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING
		  file_id, transport_file_id, file_name, size_bytes, mime_type, uploader_id, uploaded_at, download_count, is_active
	`
	SelectFileByID = `
		SELECT file_id, transport_file_id, file_name, size_bytes, mime_type, uploader_id, uploaded_at, download_count, is_active
		FROM files
		WHERE file_id = $1 AND is_active
	`
	SelectFilesByOwner = `
		SELECT file_id, transport_file_id, file_name, size_bytes, mime_type, uploader_id, uploaded_at, download_count, is_active
		FROM files
		WHERE uploader_id = $1 AND is_active
		ORDER BY uploaded_at DESC, file_id
	`
	IncrementDownloadCount = `
		UPDATE files
		SET download_count = download_count + 1
		WHERE file_id = $1 AND is_active
		RETURNING download_count
	`
	SoftDeleteFileByID = `
		UPDATE files
		SET is_active = FALSE
		WHERE file_id = $1 AND is_active
	`
)
