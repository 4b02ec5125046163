package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/file"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/infrastructure/landing"
	"filelink-api/internal/infrastructure/mq"
)

// MaxMintAttempts bounds re-minting after identifier collisions.
const MaxMintAttempts = 3

type (
	FileConfig struct {
		// Handle is the transport service account, resolved once at start.
		Handle string
		// Channel is the force-subscribe channel; empty disables membership lookups.
		Channel  string
		Policies access.Policies
	}

	FileService struct {
		cfg        FileConfig
		files      file.Repository
		users      user.Repository
		minter     ports.Minter
		landing    ports.Landing
		gate       ports.Gate
		membership ports.MembershipResolver
		mq         ports.EventPublisher
		logger     *zap.Logger
		mCounter   *prometheus.CounterVec
		now        func() time.Time
	}

	fileEvent struct {
		FileID     string `json:"file_id"`
		FileName   string `json:"file_name"`
		SizeBytes  uint64 `json:"size_bytes"`
		MimeType   string `json:"mime_type"`
		UploaderID int64  `json:"uploader_id"`
	}
	downloadEvent struct {
		FileID        string `json:"file_id"`
		DownloaderID  int64  `json:"downloader_id,omitempty"`
		DownloadCount uint64 `json:"download_count"`
	}
)

func NewFileService(
	cfg FileConfig,
	files file.Repository,
	users user.Repository,
	minter ports.Minter,
	landing ports.Landing,
	gate ports.Gate,
	membership ports.MembershipResolver,
	mq ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.FileService {
	return &FileService{
		cfg:        cfg,
		files:      files,
		users:      users,
		minter:     minter,
		landing:    landing,
		gate:       gate,
		membership: membership,
		mq:         mq,
		logger:     logger,
		mCounter:   mCounter,
		now:        time.Now,
	}
}

func (fs *FileService) Handle() string { return fs.cfg.Handle }

// MintAndStoreFile mints an identifier for in and persists it, re-minting on
// collision up to MaxMintAttempts times.
func (fs *FileService) MintAndStoreFile(ctx context.Context, principal user.ID, in file.NewFile) (*file.File, error) {
	if principal <= 0 || in.TransportFileID == "" || in.FileName == "" {
		return nil, fmt.Errorf("store file: %w", domain.ErrInvalidInput)
	}
	if in.SizeBytes > file.MaxSizeBytes {
		return nil, fmt.Errorf("store file: size %d out of range: %w", in.SizeBytes, domain.ErrInvalidInput)
	}

	uploadedAt := fs.now().UTC()
	var lastErr error
	for attempt := 1; attempt <= MaxMintAttempts; attempt++ {
		fileID, err := fs.minter.Mint(principal, in.TransportFileID, uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("mint file id: %w", err)
		}

		f, err := fs.files.CreateFile(ctx, &file.File{
			FileID:          fileID,
			TransportFileID: in.TransportFileID,
			FileName:        in.FileName,
			SizeBytes:       in.SizeBytes,
			MimeType:        in.MimeType,
			UploaderID:      principal,
			UploadedAt:      uploadedAt,
			IsActive:        true,
		})
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, domain.ErrDuplicateKey) {
			return nil, err
		}

		lastErr = err
		fs.mCounter.WithLabelValues("file_id_collision_total").Inc()
		fs.logger.Warn("file id collision, re-minting",
			zap.String("file_id", fileID),
			zap.Int("attempt", attempt),
		)
	}

	return nil, fmt.Errorf("mint file id after %d attempts: %w", MaxMintAttempts, lastErr)
}

func (fs *FileService) resolveMembership(ctx context.Context, userID user.ID) access.Membership {
	if fs.cfg.Channel == "" || fs.membership == nil {
		return access.Member
	}

	m, err := fs.membership.ResolveMembership(ctx, fs.cfg.Channel, userID)
	if err != nil {
		fs.logger.Warn("membership check failed",
			zap.Int64("user_id", int64(userID)),
			zap.String("channel", fs.cfg.Channel),
			zap.Error(err),
		)
		return access.MembershipUnknown
	}
	return m
}

func (fs *FileService) admit(ctx context.Context, userID user.ID, op access.Operation) (access.Decision, error) {
	d, err := fs.gate.Evaluate(ctx, userID, fs.resolveMembership(ctx, userID), fs.cfg.Policies.For(op))
	if err != nil {
		return d, err
	}

	switch d.Outcome {
	case access.RequiresSubscription:
		return d, fmt.Errorf("%s: %w", op, domain.ErrSubscriptionRequired)
	case access.RequiresPremium:
		return d, fmt.Errorf("%s: %w", op, domain.ErrPremiumRequired)
	}
	return d, nil
}

func (fs *FileService) links(f *file.File, d access.Decision) (*ports.FileLinks, error) {
	deepLink, err := fs.BuildDeepLink(f.FileID, fs.cfg.Handle)
	if err != nil {
		return nil, err
	}

	return &ports.FileLinks{
		File:       f,
		DeepLink:   deepLink,
		LandingURL: fs.BuildLandingURL(f),
		Decision:   d,
	}, nil
}

// Upload admits principal, stores the uploaded file and returns its links.
func (fs *FileService) Upload(ctx context.Context, principal user.ID, u file.Upload) (*ports.FileLinks, error) {
	d, err := fs.admit(ctx, principal, access.OpUpload)
	if err != nil {
		return nil, err
	}

	in, err := file.Extract(u, fs.now())
	if err != nil {
		return nil, err
	}

	f, err := fs.MintAndStoreFile(ctx, principal, in)
	if err != nil {
		return nil, err
	}

	if err = fs.users.IncrementStats(ctx, principal, 1, 0); err != nil {
		// The file is stored; a stats miss must not fail the upload.
		fs.logger.Error("increment upload stats",
			zap.Int64("user_id", int64(principal)),
			zap.String("file_id", f.FileID),
			zap.Error(err),
		)
	}

	fs.mq.Publish(mq.NewEvent(mq.FileUploaded, int64(principal), fileEvent{
		FileID:     f.FileID,
		FileName:   f.FileName,
		SizeBytes:  f.SizeBytes,
		MimeType:   f.MimeType,
		UploaderID: int64(f.UploaderID),
	}))
	fs.mCounter.WithLabelValues("file_uploaded_total").Inc()

	return fs.links(f, d)
}

// RetrieveLink is the link-retrieval path: the requester is admitted under
// the link policy before the deep-link is handed out.
func (fs *FileService) RetrieveLink(ctx context.Context, requester user.ID, fileID string) (*ports.FileLinks, error) {
	f, err := fs.files.FetchFileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	d, err := fs.admit(ctx, requester, access.OpLinkRetrieval)
	if err != nil {
		return nil, err
	}

	fs.mCounter.WithLabelValues("link_retrieved_total").Inc()

	return fs.links(f, d)
}

func (fs *FileService) BuildDeepLink(fileID, handle string) (string, error) {
	return fs.landing.DeepLink(fileID, handle)
}

func (fs *FileService) BuildLandingPage(ctx context.Context, fileID, handle string) (string, error) {
	f, err := fs.files.FetchFileByID(ctx, fileID)
	if err != nil {
		return "", err
	}

	page, err := fs.landing.Render(landing.Page{
		FileID:        f.FileID,
		FileName:      f.FileName,
		FileSizeBytes: f.SizeBytes,
		TargetHandle:  handle,
	})
	if err != nil {
		return "", err
	}

	fs.mCounter.WithLabelValues("landing_rendered_total").Inc()

	return page, nil
}

func (fs *FileService) BuildLandingURL(f *file.File) string {
	return fs.landing.PublicURL(f.FileID, f.FileName, f.SizeBytes)
}

// RecordDownload counts a completed delivery. downloader 0 means the
// recipient is unknown and only the file counter moves.
func (fs *FileService) RecordDownload(ctx context.Context, fileID string, downloader user.ID) (uint64, error) {
	if fileID == "" || downloader < 0 {
		return 0, fmt.Errorf("record download: %w", domain.ErrInvalidInput)
	}

	count, err := fs.files.IncrementDownloads(ctx, fileID)
	if err != nil {
		return 0, err
	}

	if downloader > 0 {
		if err = fs.users.IncrementStats(ctx, downloader, 0, 1); err != nil {
			fs.logger.Error("increment download stats",
				zap.Int64("user_id", int64(downloader)),
				zap.String("file_id", fileID),
				zap.Error(err),
			)
		}
	}

	fs.mq.Publish(mq.NewEvent(mq.FileDownloaded, int64(downloader), downloadEvent{
		FileID:        fileID,
		DownloaderID:  int64(downloader),
		DownloadCount: count,
	}))
	fs.mCounter.WithLabelValues("file_downloaded_total").Inc()

	return count, nil
}

func (fs *FileService) GetFile(ctx context.Context, fileID string) (*file.File, error) {
	return fs.files.FetchFileByID(ctx, fileID)
}

func (fs *FileService) ListByOwner(ctx context.Context, owner user.ID) (file.Files, error) {
	return fs.files.FetchFilesByOwner(ctx, owner)
}

func (fs *FileService) SoftDelete(ctx context.Context, fileID string) error {
	if err := fs.files.SoftDeleteFile(ctx, fileID); err != nil {
		return err
	}

	fs.mCounter.WithLabelValues("file_deleted_total").Inc()
	fs.logger.Info("file deactivated", zap.String("file_id", fileID))

	return nil
}
