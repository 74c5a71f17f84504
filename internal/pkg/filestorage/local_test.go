package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadHeader builds a real multipart.FileHeader carrying the given content
func uploadHeader(t *testing.T, fieldName, fileName, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File[fieldName][0]
}

func TestLocalStorage_StageCommit(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	staged, err := ls.Stage(uploadHeader(t, "video", "intro.mp4", "video-bytes"), "videos")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(staged.URL, "/uploads/videos/"))
	assert.True(t, strings.HasSuffix(staged.URL, ".mp4"))

	// Before commit the file only exists in the staging area
	_, err = os.Stat(staged.finalPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(staged.stagedPath)
	require.NoError(t, err)

	require.NoError(t, ls.Commit(staged))

	content, err := os.ReadFile(staged.finalPath)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(content))
	_, err = os.Stat(staged.stagedPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_Discard(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	staged, err := ls.Stage(uploadHeader(t, "thumbnail", "thumb.png", "png-bytes"), "")
	require.NoError(t, err)

	ls.Discard(staged)

	_, err = os.Stat(staged.stagedPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(staged.finalPath)
	assert.True(t, os.IsNotExist(err))

	// Discarding twice is harmless
	ls.Discard(staged, nil)
}

func TestLocalStorage_DeleteFile(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	staged, err := ls.Stage(uploadHeader(t, "thumbnail", "thumb.png", "png-bytes"), "")
	require.NoError(t, err)
	require.NoError(t, ls.Commit(staged))

	require.NoError(t, ls.DeleteFile(staged.URL))
	_, err = os.Stat(staged.finalPath)
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing file is a no-op
	require.NoError(t, ls.DeleteFile(staged.URL))
	require.NoError(t, ls.DeleteFile(""))
}

func TestLocalStorage_DeleteFile_RejectsTraversal(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	secret := filepath.Join(base, "..", "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("keep"), 0o600))
	defer os.Remove(secret)

	err = ls.DeleteFile("/uploads/../secret.txt")
	assert.Error(t, err)
	_, statErr := os.Stat(secret)
	assert.NoError(t, statErr)
}

func TestLocalStorage_UniqueStoredNames(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	first, err := ls.Stage(uploadHeader(t, "file", "same.png", "a"), "")
	require.NoError(t, err)
	second, err := ls.Stage(uploadHeader(t, "file", "same.png", "b"), "")
	require.NoError(t, err)

	assert.NotEqual(t, first.URL, second.URL)
	require.NoError(t, ls.Commit(first, second))
}
