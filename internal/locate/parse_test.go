package locate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

func TestParseFolderSpec(t *testing.T) {
	dir := t.TempDir()
	r := Parse("folder:" + dir)
	require.True(t, r.OK(), r.Error())
	assert.Equal(t, model.KindFolder, r.Value().Kind)
}

func TestParseFolderRejectsMissingPath(t *testing.T) {
	r := Parse("folder:/does/not/exist/anywhere")
	assert.False(t, r.OK())
}

func TestParseZipSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.zip")
	// A minimal valid (empty) zip's central directory end record.
	require.NoError(t, os.WriteFile(path, emptyZipBytes(), 0o644))

	r := Parse("zip:" + path)
	require.True(t, r.OK(), r.Error())
	assert.Equal(t, model.KindZip, r.Value().Kind)
}

func TestParseZipRejectsNonZipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-zip.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	r := Parse("zip:" + path)
	assert.False(t, r.OK())
}

func TestParseFTPSpec(t *testing.T) {
	r := Parse("ftp:alice:secret@example.com/remote/dir")
	require.True(t, r.OK(), r.Error())
	loc := r.Value()
	assert.Equal(t, model.KindFTP, loc.Kind)
	assert.Equal(t, "alice", loc.Username)
	assert.Equal(t, "secret", loc.Password)
	assert.Equal(t, "example.com", loc.Host)
	assert.Equal(t, "/remote/dir", loc.RemotePath)
}

func TestParseFTPDefaultsRemotePath(t *testing.T) {
	r := Parse("ftp:alice:secret@example.com")
	require.True(t, r.OK(), r.Error())
	assert.Equal(t, "/", r.Value().RemotePath)
}

func TestParseFTPRejectsMissingCredentials(t *testing.T) {
	r := Parse("ftp:example.com")
	assert.False(t, r.OK())
}

func TestParseRejectsUnknownPrefix(t *testing.T) {
	r := Parse("s3:bucket/key")
	assert.False(t, r.OK())
}

func TestParseRejectsEmptyLine(t *testing.T) {
	r := Parse("   ")
	assert.False(t, r.OK())
}

// emptyZipBytes returns the bytes of a valid, empty ZIP archive (just the
// end-of-central-directory record), without pulling in archive/zip here.
func emptyZipBytes() []byte {
	return []byte{0x50, 0x4b, 0x05, 0x06, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
}
