// Package memory is a process-local record store for development and tests.
// Every operation takes the store mutex, so increments and strict creates are
// atomic with respect to each other.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/file"
	"filelink-api/internal/domain/premium"
	"filelink-api/internal/domain/session"
	"filelink-api/internal/domain/user"
)

type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	files    map[string]file.File
	users    map[user.ID]user.User
	grants   map[user.ID]premium.Grant
	sessions map[string]session.Session
}

func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:      now,
		files:    make(map[string]file.File),
		users:    make(map[user.ID]user.User),
		grants:   make(map[user.ID]premium.Grant),
		sessions: make(map[string]session.Session),
	}
}

func (s *Store) Files() file.Repository       { return (*fileRepo)(s) }
func (s *Store) Users() user.Repository       { return (*userRepo)(s) }
func (s *Store) Grants() premium.Repository   { return (*grantRepo)(s) }
func (s *Store) Sessions() session.Repository { return (*sessionRepo)(s) }

type fileRepo Store

func (r *fileRepo) CreateFile(_ context.Context, f *file.File) (*file.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[f.FileID]; ok {
		return nil, fmt.Errorf("file %s: %w", f.FileID, domain.ErrDuplicateKey)
	}
	stored := *f
	stored.DownloadCount = 0
	stored.IsActive = true
	if stored.UploadedAt.IsZero() {
		stored.UploadedAt = r.now()
	}
	r.files[f.FileID] = stored

	return &stored, nil
}

func (r *fileRepo) FetchFileByID(_ context.Context, fileID string) (*file.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[fileID]
	if !ok || !f.IsActive {
		return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return &f, nil
}

func (r *fileRepo) FetchFilesByOwner(_ context.Context, uploaderID user.ID) (file.Files, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var fs file.Files
	for _, f := range r.files {
		if f.UploaderID == uploaderID && f.IsActive {
			f := f
			fs = append(fs, &f)
		}
	}
	sort.Slice(fs, func(i, j int) bool {
		if !fs[i].UploadedAt.Equal(fs[j].UploadedAt) {
			return fs[i].UploadedAt.After(fs[j].UploadedAt)
		}
		return fs[i].FileID < fs[j].FileID
	})

	return fs, nil
}

func (r *fileRepo) IncrementDownloads(_ context.Context, fileID string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[fileID]
	if !ok || !f.IsActive {
		return 0, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	f.DownloadCount++
	r.files[fileID] = f

	return f.DownloadCount, nil
}

func (r *fileRepo) SoftDeleteFile(_ context.Context, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[fileID]
	if !ok || !f.IsActive {
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	f.IsActive = false
	r.files[fileID] = f

	return nil
}

type userRepo Store

func (r *userRepo) FetchUserByID(_ context.Context, id user.ID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *userRepo) UpsertUser(_ context.Context, p user.Patch) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[p.ID]
	if !ok {
		u = user.User{ID: p.ID, JoinedAt: r.now()}
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	r.users[p.ID] = u

	return &u, nil
}

func (r *userRepo) IncrementStats(_ context.Context, id user.ID, uploads, downloads uint64) error {
	if uploads == 0 && downloads == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		u = user.User{ID: id, JoinedAt: r.now()}
	}
	u.TotalUploads += uploads
	u.TotalDownloads += downloads
	r.users[id] = u

	return nil
}

type grantRepo Store

func (r *grantRepo) FetchGrant(_ context.Context, userID user.ID) (*premium.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grants[userID]
	if !ok {
		return nil, fmt.Errorf("premium grant %d: %w", userID, domain.ErrNotFound)
	}
	return copyGrant(g), nil
}

func (r *grantRepo) UpsertGrant(_ context.Context, g premium.Grant) (*premium.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *copyGrant(g)
	r.grants[g.UserID] = stored

	return copyGrant(stored), nil
}

func (r *grantRepo) RevokeGrant(_ context.Context, userID user.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grants[userID]
	if !ok {
		return fmt.Errorf("premium grant %d: %w", userID, domain.ErrNotFound)
	}
	g.IsPremium = false
	r.grants[userID] = g

	return nil
}

func copyGrant(g premium.Grant) *premium.Grant {
	if g.ExpiresAt != nil {
		exp := *g.ExpiresAt
		g.ExpiresAt = &exp
	}
	return &g
}

type sessionRepo Store

func (r *sessionRepo) CreateSession(_ context.Context, in *session.Session) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[in.SessionID]; ok {
		return nil, fmt.Errorf("session %s: %w", in.SessionID, domain.ErrDuplicateKey)
	}
	s := session.Session{SessionID: in.SessionID, CreatedAt: in.CreatedAt, Fields: session.Fields{}}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now()
	}
	maps.Copy(s.Fields, in.Fields)
	r.sessions[s.SessionID] = s

	return copySession(s), nil
}

func (r *sessionRepo) FetchSession(_ context.Context, sessionID string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return copySession(s), nil
}

func (r *sessionRepo) UpdateSession(_ context.Context, sessionID string, fields session.Fields) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	maps.Copy(s.Fields, fields)

	return copySession(s), nil
}

func copySession(s session.Session) *session.Session {
	s.Fields = maps.Clone(s.Fields)
	return &s
}
