package intake

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadrop/mediadrop/pkg/logging"
	"github.com/mediadrop/mediadrop/pkg/naming"
	"github.com/mediadrop/mediadrop/pkg/storage"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func newTestPipeline(t *testing.T, maxBytes int64, baseURL string) (*Pipeline, *storage.Store) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store, err := storage.NewStore(fs, "/uploads")
	require.NoError(t, err)
	p := NewPipeline(store, naming.NewResolver(nil), maxBytes, baseURL, logging.NewTestLogger())
	return p, store
}

func upload(name, contentType, suggested, body string) Upload {
	return Upload{
		OriginalName:  name,
		DeclaredType:  contentType,
		DeclaredSize:  int64(len(body)),
		SuggestedName: suggested,
		Body:          strings.NewReader(body),
	}
}

func TestProcessSuccess(t *testing.T) {
	p, store := newTestPipeline(t, 0, "")

	result, appErr := p.Process(upload("original.mp4", "video/mp4", "cover", "content"), "http://example.com")
	require.Nil(t, appErr)

	assert.Equal(t, "cover.mp4", result.Filename)
	assert.Equal(t, int64(7), result.Size)
	assert.Equal(t, "video/mp4", result.MimeType)
	assert.Equal(t, "http://example.com/files/cover.mp4", result.URL)

	info, err := store.Stat("cover.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.Size())
}

func TestProcessBaseURLOverride(t *testing.T) {
	p, _ := newTestPipeline(t, 0, "https://cdn.example.net")

	result, appErr := p.Process(upload("a.mp4", "video/mp4", "clip", "x"), "http://ignored.local")
	require.Nil(t, appErr)
	assert.Equal(t, "https://cdn.example.net/files/clip.mp4", result.URL)
}

func TestProcessRejectsUnknownType(t *testing.T) {
	p, store := newTestPipeline(t, 0, "")

	_, appErr := p.Process(upload("tool.exe", "application/x-msdownload", "", "MZ"), "http://example.com")
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "unsupported content type")

	// Nothing may be persisted for a rejected type.
	names, err := store.ListNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestProcessRejectsOversizeBeforeWrite(t *testing.T) {
	p, store := newTestPipeline(t, 8, "")

	_, appErr := p.Process(upload("big.mp4", "video/mp4", "big", "way more than eight"), "http://example.com")
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.StatusCode)

	names, err := store.ListNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestProcessOversizeStreamLeavesNoFile(t *testing.T) {
	p, store := newTestPipeline(t, 8, "")

	// Declared size lies; the streaming guard catches the overflow and
	// the partial file is removed.
	up := upload("big.mp4", "video/mp4", "big", "way more than eight")
	up.DeclaredSize = 4
	_, appErr := p.Process(up, "http://example.com")
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.StatusCode)

	names, err := store.ListNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestProcessSniffsGenericDeclaredType(t *testing.T) {
	p, _ := newTestPipeline(t, 0, "")

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 32)...)
	up := Upload{
		OriginalName:  "shot",
		DeclaredType:  "application/octet-stream",
		DeclaredSize:  int64(len(body)),
		SuggestedName: "shot",
		Body:          bytes.NewReader(body),
	}

	result, appErr := p.Process(up, "http://example.com")
	require.Nil(t, appErr)
	assert.Equal(t, "image/png", result.MimeType)
	assert.Equal(t, "shot.png", result.Filename)
	assert.Equal(t, int64(len(body)), result.Size)
}

func TestProcessURLEscapesFilename(t *testing.T) {
	p, _ := newTestPipeline(t, 0, "")

	// Safe-pattern names never need escaping, but the URL is built with
	// PathEscape regardless.
	result, appErr := p.Process(upload("v.mp4", "video/mp4", "my-clip_1.final", "x"), "http://example.com/")
	require.Nil(t, appErr)
	assert.Equal(t, "http://example.com/files/my-clip_1.final", result.URL)
}
