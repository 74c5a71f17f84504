package filestorage

import (
	"mime/multipart"
)

// StagedFile is an uploaded file that has been written to disk but not yet
// published. Its URL only becomes reachable after Commit moves the file
// into the serving tree.
type StagedFile struct {
	// URL is the path the file will be reachable under once committed,
	// e.g. /uploads/videos/3f2a....mp4. This is the value stored in the
	// database.
	URL string

	stagedPath string
	finalPath  string
}

// FileStorage defines the interface for file storage operations. Uploads
// are staged first and only published after the surrounding database write
// commits, so a failed request leaves no orphaned media behind.
type FileStorage interface {
	// Stage writes the upload into the staging area. subPath selects the
	// subdirectory of the serving tree the file will land in on commit
	// (empty for the root).
	Stage(fileHeader *multipart.FileHeader, subPath string) (*StagedFile, error)

	// Commit publishes staged files by renaming them into the serving tree.
	Commit(files ...*StagedFile) error

	// Discard removes staged files that will not be published.
	Discard(files ...*StagedFile)

	// DeleteFile removes a published file given its stored URL.
	DeleteFile(fileURL string) error
}
