package ports

import (
	"context"

	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/file"
	"filelink-api/internal/domain/user"
)

type (
	// FileLinks are the artifacts handed back for a stored file.
	FileLinks struct {
		File       *file.File
		DeepLink   string
		LandingURL string
		Decision   access.Decision
	}

	FileService interface {
		MintAndStoreFile(ctx context.Context, principal user.ID, in file.NewFile) (*file.File, error)
		Upload(ctx context.Context, principal user.ID, u file.Upload) (*FileLinks, error)
		RetrieveLink(ctx context.Context, requester user.ID, fileID string) (*FileLinks, error)
		BuildDeepLink(fileID, handle string) (string, error)
		BuildLandingPage(ctx context.Context, fileID, handle string) (string, error)
		BuildLandingURL(f *file.File) string
		RecordDownload(ctx context.Context, fileID string, downloader user.ID) (uint64, error)
		GetFile(ctx context.Context, fileID string) (*file.File, error)
		ListByOwner(ctx context.Context, owner user.ID) (file.Files, error)
		SoftDelete(ctx context.Context, fileID string) error
		Handle() string
	}
)
