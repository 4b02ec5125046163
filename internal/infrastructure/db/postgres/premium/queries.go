package premium

const (
	SelectGrantByUserID = `
		SELECT user_id, is_premium, granted_at, expires_at
		FROM premium_grants
		WHERE user_id = $1
	`
	UpsertGrantByUserID = `
		INSERT INTO premium_grants (user_id, is_premium, granted_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET is_premium = EXCLUDED.is_premium,
		    granted_at = EXCLUDED.granted_at,
		    expires_at = EXCLUDED.expires_at
		RETURNING
		  user_id, is_premium, granted_at, expires_at
	`
	RevokeGrantByUserID = `
		UPDATE premium_grants
		SET is_premium = FALSE
		WHERE user_id = $1
	`
)
