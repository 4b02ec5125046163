package file

import (
	"context"

	"filelink-api/internal/domain/user"
)

// Repository never returns inactive files from lookups. CreateFile fails with
// domain.ErrDuplicateKey when the file id is already taken.
type Repository interface {
	CreateFile(ctx context.Context, f *File) (*File, error)
	FetchFileByID(ctx context.Context, fileID string) (*File, error)
	FetchFilesByOwner(ctx context.Context, uploaderID user.ID) (Files, error)
	IncrementDownloads(ctx context.Context, fileID string) (uint64, error)
	SoftDeleteFile(ctx context.Context, fileID string) error
}
