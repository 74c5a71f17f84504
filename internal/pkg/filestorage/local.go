package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/learnhub/backend/internal/pkg/logger"
)

const stagingDir = ".staging"

// LocalStorage stores files on the local filesystem under a base path that
// is served statically. New uploads are written into a staging directory
// inside the base path and renamed into place on commit; rename within the
// same filesystem is atomic, so a half-written file is never visible.
type LocalStorage struct {
	basePath string // Root directory of the serving tree
	baseURL  string // URL prefix the tree is served under, e.g. /uploads
}

// NewLocalStorage creates a new LocalStorage instance
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, stagingDir), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Stage writes an uploaded file into the staging area
func (ls *LocalStorage) Stage(fileHeader *multipart.FileHeader, subPath string) (*StagedFile, error) {
	if fileHeader == nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Unique stored name so client filenames cannot collide or escape the tree
	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext

	stagedPath := filepath.Join(ls.basePath, stagingDir, uniqueFilename)
	dst, err := os.Create(stagedPath)
	if err != nil {
		logger.Error().Err(err).Str("path", stagedPath).Msg("Failed to create staging file")
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", stagedPath).Msg("Failed to write uploaded file content")
		_ = os.Remove(stagedPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	finalPath := filepath.Join(ls.basePath, subPath, uniqueFilename)
	url := ls.baseURL + "/" + uniqueFilename
	if subPath != "" {
		url = ls.baseURL + "/" + path.Join(subPath, uniqueFilename)
	}

	logger.Debug().Str("filename", fileHeader.Filename).Str("staged_as", uniqueFilename).Msg("File staged")
	return &StagedFile{
		URL:        url,
		stagedPath: stagedPath,
		finalPath:  finalPath,
	}, nil
}

// Commit renames staged files into the serving tree. On the first failure
// the already-published files of this batch stay in place; the remaining
// staged files are left for Discard.
func (ls *LocalStorage) Commit(files ...*StagedFile) error {
	for _, f := range files {
		if f == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.finalPath), os.ModePerm); err != nil {
			return fmt.Errorf("failed to create media directory: %w", err)
		}
		if err := os.Rename(f.stagedPath, f.finalPath); err != nil {
			logger.Error().Err(err).Str("path", f.finalPath).Msg("Failed to publish staged file")
			return fmt.Errorf("failed to publish staged file: %w", err)
		}
		logger.Info().Str("path", f.finalPath).Msg("File published")
	}
	return nil
}

// Discard removes staged files. A leftover staged file is logged and kept
// for manual reconciliation rather than failing the request further.
func (ls *LocalStorage) Discard(files ...*StagedFile) {
	for _, f := range files {
		if f == nil {
			continue
		}
		if err := os.Remove(f.stagedPath); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", f.stagedPath).Msg("Failed to remove staged file")
		}
	}
}

// DeleteFile removes a published file given its stored URL
// (e.g. /uploads/videos/name.mp4). Deleting a missing file is a no-op.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	rel = strings.TrimPrefix(rel, "/")
	rel = filepath.Clean(rel)
	if rel == "" || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	physicalPath := filepath.Join(ls.basePath, rel)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}
