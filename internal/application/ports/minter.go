package ports

import (
	"time"

	"filelink-api/internal/domain/user"
)

type Minter interface {
	Mint(principal user.ID, transportFileID string, ts time.Time) (string, error)
}
