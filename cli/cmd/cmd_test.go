package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/confxml/lang"
)

// writeSource writes content to a new file in a temporary directory and
// returns its path.
func writeSource(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// testContext returns a context whose commands print to the returned buffer
// and read stdin from in.
func testContext(in string) (context.Context, *bytes.Buffer) {
	var out bytes.Buffer

	ctx := WithOutput(context.Background(), &out)
	ctx = WithInput(ctx, strings.NewReader(in))

	return ctx, &out
}

func readAll(t *testing.T, srcs *sourceFiles) string {
	t.Helper()

	data, err := io.ReadAll(srcs.Reader())
	require.NoError(t, err)

	return string(data)
}

func TestOpenSources_EmptyReadsStdin(t *testing.T) {
	srcs, err := openSources(nil, strings.NewReader("A\n"))
	require.NoError(t, err)
	defer srcs.Close()

	assert.True(t, srcs.hasStdin)
	assert.Equal(t, "A\n", readAll(t, srcs))
	assert.Equal(t, "<stdin>", srcs.Name())
}

func TestOpenSources_JoinsWithLineBreak(t *testing.T) {
	a := writeSource(t, "a.conf", "A\nbegin")
	b := writeSource(t, "b.conf", "end")

	srcs, err := openSources([]string{a, "-", b}, strings.NewReader("C"))
	require.NoError(t, err)
	defer srcs.Close()

	assert.Equal(t, "A\nbegin\nend\nC", readAll(t, srcs), "stdin is read last")
}

func TestOpenSources_Deduplicates(t *testing.T) {
	a := writeSource(t, "a.conf", "A")

	link := filepath.Join(t.TempDir(), "link.conf")
	require.NoError(t, os.Symlink(a, link))

	srcs, err := openSources([]string{a, link, a, "-", "-"}, strings.NewReader("B"))
	require.NoError(t, err)
	defer srcs.Close()

	assert.Len(t, srcs.files, 1)
	assert.Equal(t, "A\nB", readAll(t, srcs))
}

func TestOpenSources_MissingFile(t *testing.T) {
	_, err := openSources(
		[]string{filepath.Join(t.TempDir(), "missing.conf")},
		strings.NewReader(""),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadSource)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConfigKey(t *testing.T) {
	tests := map[string]string{
		"log-level":       "LOGLEVEL",
		"log-time-layout": "LOGTIMELAYOUT",
		"force":           "FORCE",
	}

	for flag, want := range tests {
		assert.Equal(t, want, ConfigKey(flag), flag)
	}
}

func TestError(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrWriteOutput.With().Wrap(cause)

	assert.Equal(t, "write output: disk full", err.Error())
	assert.ErrorIs(t, err, ErrWriteOutput)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrReadSource)
	assert.Equal(t, "", NewError("").Error())
}

func TestParseOptionsFrom_IncludesLogger(t *testing.T) {
	assert.Len(t, parseOptionsFrom(context.Background()), 1)

	ctx := WithParseOptions(context.Background(),
		lang.WithMaxDepth(2),
		lang.WithCommentMarker("#"),
	)
	assert.Len(t, parseOptionsFrom(ctx), 3)
}
