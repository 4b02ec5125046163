package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/file"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db      postgres.DBTX
	timeout time.Duration
}

func NewRepository(db postgres.DBTX, timeout time.Duration) file.Repository {
	return &Repository{db: db, timeout: timeout}
}

func scanFile(row pgx.Row, f *File) error {
	return row.Scan(
		&f.FileID,
		&f.TransportFileID,
		&f.FileName,
		&f.SizeBytes,
		&f.MimeType,
		&f.UploaderID,

		&f.UploadedAt,
		&f.DownloadCount,
		&f.IsActive,
	)
}

// CreateFile inserts req. A unique violation on a retried attempt may be our
// own earlier insert whose reply was lost; that row is returned instead of a
// duplicate when it carries the same transport file and uploader.
func (r *Repository) CreateFile(ctx context.Context, req *file.File) (*file.File, error) {
	f := new(File)

	attempts := 0
	err := postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		attempts++
		return scanFile(r.db.QueryRow(
			ctx,
			InsertFile,
			req.FileID, req.TransportFileID, req.FileName, req.SizeBytes, req.MimeType, int64(req.UploaderID), req.UploadedAt,
		), f)
	})
	if err != nil {
		if !postgres.IsPgUniqueViolation(err) {
			return nil, err
		}
		if attempts > 1 {
			stored, ferr := r.FetchFileByID(context.WithoutCancel(ctx), req.FileID)
			if ferr == nil && stored.TransportFileID == req.TransportFileID && stored.UploaderID == req.UploaderID {
				return stored, nil
			}
		}
		return nil, fmt.Errorf("file %s: %w", req.FileID, domain.ErrDuplicateKey)
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchFileByID(ctx context.Context, fileID string) (*file.File, error) {
	f := new(File)

	err := postgres.Read(ctx, r.timeout, func(ctx context.Context) error {
		return scanFile(r.db.QueryRow(ctx, SelectFileByID, fileID), f)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchFilesByOwner(ctx context.Context, uploaderID user.ID) (file.Files, error) {
	var fs Files

	err := postgres.Read(ctx, r.timeout, func(ctx context.Context) error {
		fs = fs[:0]

		rows, err := r.db.Query(ctx, SelectFilesByOwner, int64(uploaderID))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			f := new(File)
			if err = scanFile(rows, f); err != nil {
				return err
			}
			fs = append(fs, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return fromDBModels(&fs), nil
}

func (r *Repository) IncrementDownloads(ctx context.Context, fileID string) (uint64, error) {
	var count uint64

	err := postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, IncrementDownloadCount, fileID).Scan(&count)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
		}
		return 0, err
	}

	return count, nil
}

func (r *Repository) SoftDeleteFile(ctx context.Context, fileID string) error {
	var affected int64

	err := postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, SoftDeleteFileByID, fileID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}

	return nil
}
