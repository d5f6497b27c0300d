package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), []string{"pdf", "PNG", "jpg"})
	require.NoError(t, err)
	return store
}

func uploaded(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(int64(len(content)) + 10240)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestAllowedIsCaseInsensitive(t *testing.T) {
	store := newStore(t)

	assert.True(t, store.Allowed("report.pdf"))
	assert.True(t, store.Allowed("report.PDF"))
	assert.True(t, store.Allowed("card.png"))
	assert.False(t, store.Allowed("script.exe"))
	assert.False(t, store.Allowed("noextension"))
}

func TestSaveStoresUnderCategory(t *testing.T) {
	store := newStore(t)

	content := []byte("%PDF-1.4 medical report")
	path, err := store.Save(uploaded(t, "report.pdf", content), CategoryMedicalReports)
	require.NoError(t, err)

	assert.Equal(t, CategoryMedicalReports, filepath.Base(filepath.Dir(path)))
	assert.True(t, store.Exists(path))

	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	size, err := store.Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
}

func TestSaveGeneratesFreshNames(t *testing.T) {
	store := newStore(t)

	first, err := store.Save(uploaded(t, "report.pdf", []byte("one")), CategoryMedicalReports)
	require.NoError(t, err)
	second, err := store.Save(uploaded(t, "report.pdf", []byte("two")), CategoryMedicalReports)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same original filename must never collide")
}

func TestSaveRejectsDisallowedFormat(t *testing.T) {
	store := newStore(t)

	_, err := store.Save(uploaded(t, "malware.exe", []byte("nope")), CategoryVerificationCards)
	assert.Error(t, err)
}
