package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxFileSize    = 50 * 1024 * 1024 // 50 MB
	UploadsBaseDir = "./uploads"
	StaticURLBase  = "/static/uploads"
)

// AllowedMimeTypes defines which file types are accepted.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"video/mp4":     true,
	"video/webm":    true,
}

// Service stores media files on local disk and records them in the
// database. Callers hand it a local file path and get a public URL back;
// upload failures propagate as errors, never as partial records.
type Service struct {
	repo       Repository
	baseDir    string // absolute path to uploads dir
	staticBase string // URL prefix for serving files
}

func NewService(repo Repository, baseDir, staticBase string) *Service {
	if baseDir == "" {
		baseDir = UploadsBaseDir
	}
	if staticBase == "" {
		staticBase = StaticURLBase
	}
	return &Service{repo: repo, baseDir: baseDir, staticBase: staticBase}
}

// SaveFromPath ingests the file at localPath: size and MIME checks, copy
// into a date-partitioned directory under the uploads root, DB record.
// The source file is left in place; callers own its cleanup.
func (s *Service) SaveFromPath(ctx context.Context, userID int64, localPath string) (*Upload, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}
	if info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	// Detect MIME type from first 512 bytes
	buf := make([]byte, 512)
	n, _ := src.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return nil, ErrInvalidMimeType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind source file: %w", err)
	}

	// Destination: uploads/YYYY/MM/DD/
	now := time.Now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	id := uuid.New().String()
	ext := filepath.Ext(localPath)
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := fmt.Sprintf("%s_%s%s", id, sanitizeName(localPath), ext)

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	relPath := filepath.Join(relDir, filename)
	upload := &Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: filepath.Base(localPath),
		FilePath:     relPath,
		FileURL:      s.staticBase + "/" + strings.ReplaceAll(relPath, "\\", "/"),
		MimeType:     mimeType,
		Size:         info.Size(),
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, upload); err != nil {
		_ = os.Remove(absPath) // rollback file on DB error
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}

	return upload, nil
}

// UploadFromPath is the narrow collaborator contract the auth module uses:
// local path in, public URL out.
func (s *Service) UploadFromPath(ctx context.Context, userID int64, localPath string) (string, error) {
	upload, err := s.SaveFromPath(ctx, userID, localPath)
	if err != nil {
		return "", err
	}
	return upload.FileURL, nil
}

// RemoveByURL deletes the stored file and its record, resolved by public
// URL. Callers use it to roll back uploads when the operation that
// triggered them fails; an already-removed upload is not an error.
func (s *Service) RemoveByURL(ctx context.Context, fileURL string) error {
	upload, err := s.repo.GetByFileURL(ctx, fileURL)
	if err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			return nil
		}
		return err
	}

	_ = os.Remove(filepath.Join(s.baseDir, upload.FilePath))
	return s.repo.Delete(ctx, upload.ID)
}

// GetByID returns upload metadata by ID.
func (s *Service) GetByID(ctx context.Context, id string) (*Upload, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the physical file and the DB record.
func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	upload, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if upload.UserID != userID {
		return ErrNotOwner
	}

	absPath := filepath.Join(s.baseDir, upload.FilePath)
	_ = os.Remove(absPath) // file may already be gone

	return s.repo.Delete(ctx, id)
}

// ListByUser returns all uploads for a user.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Upload, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name)) // extension added separately
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	default:
		return ""
	}
}
