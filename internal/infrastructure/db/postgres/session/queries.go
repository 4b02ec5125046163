package session

const (
	InsertSession = `
		INSERT INTO verification_sessions (session_id, created_at, fields)
		VALUES ($1, $2, $3::jsonb)
		RETURNING session_id, created_at, fields
	`
	SelectSessionByID = `
		SELECT session_id, created_at, fields
		FROM verification_sessions
		WHERE session_id = $1
	`
	MergeSessionFields = `
		UPDATE verification_sessions
		SET fields = fields || $2::jsonb
		WHERE session_id = $1
		RETURNING session_id, created_at, fields
	`
)
