package user

const (
	SelectUserByID = `
		SELECT user_id, username, first_name, joined_at, total_uploads, total_downloads, is_verified
		FROM users
		WHERE user_id = $1
	`
	UpsertUserByID = `
		INSERT INTO users (user_id, username, first_name, is_verified)
		VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, FALSE))
		ON CONFLICT (user_id) DO UPDATE
		SET username = COALESCE($2, users.username),
		    first_name = COALESCE($3, users.first_name),
		    is_verified = COALESCE($4, users.is_verified)
		RETURNING
		  user_id, username, first_name, joined_at, total_uploads, total_downloads, is_verified
	`
	IncrementUserStats = `
		INSERT INTO users (user_id, total_uploads, total_downloads)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET total_uploads = users.total_uploads + EXCLUDED.total_uploads,
		    total_downloads = users.total_downloads + EXCLUDED.total_downloads
	`
)
