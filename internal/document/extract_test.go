package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/internal/common/errors"
)

func TestExtractText_MissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)

	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, se.Code)
	assert.True(t, se.Fatal)
}

func TestExtractText_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.odt")
	require.NoError(t, os.WriteFile(path, []byte("not a resume"), 0o644))

	_, err := ExtractText(path)
	require.Error(t, err)

	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnsupportedFormat, se.Code)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-garbage"), 0o644))

	_, err := ExtractText(path)
	require.Error(t, err)

	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCVExtractionFailed, se.Code)
}
