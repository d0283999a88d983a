package compiler

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/typekeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

// The scripts receive the unit as $1 and the output path as $2.
func TestExec_CopiesOutputIntoPlace(t *testing.T) {
	sh := shell(t)
	dir := t.TempDir()
	src := writeUnit(t, dir, "alice.unit", aliceUnit)
	out := filepath.Join(dir, "alice.art")

	c, err := NewExec([]string{sh, "-c", `cp "$1" "$2"`, "toolchain"}, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, c.Compile(context.Background(), src, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, aliceUnit, string(data))
}

func TestExec_AnyOutputIsFatal(t *testing.T) {
	sh := shell(t)
	dir := t.TempDir()
	src := writeUnit(t, dir, "alice.unit", aliceUnit)
	out := filepath.Join(dir, "alice.art")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o600))

	c, err := NewExec([]string{sh, "-c", `cp "$1" "$2"; echo "warning: deprecated" >&2`, "toolchain"}, logging.Discard())
	require.NoError(t, err)

	err = c.Compile(context.Background(), src, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompile))
	assert.Contains(t, err.Error(), "warning: deprecated")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp output must be removed")
}

func TestExec_NonZeroExit(t *testing.T) {
	sh := shell(t)
	dir := t.TempDir()
	src := writeUnit(t, dir, "alice.unit", aliceUnit)

	c, err := NewExec([]string{sh, "-c", "exit 3", "toolchain"}, logging.Discard())
	require.NoError(t, err)

	err = c.Compile(context.Background(), src, filepath.Join(dir, "alice.art"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestExec_NoArtifactProduced(t *testing.T) {
	sh := shell(t)
	dir := t.TempDir()
	src := writeUnit(t, dir, "alice.unit", aliceUnit)

	c, err := NewExec([]string{sh, "-c", "true", "toolchain"}, logging.Discard())
	require.NoError(t, err)

	err = c.Compile(context.Background(), src, filepath.Join(dir, "alice.art"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no artifact")
}

func TestNewExec_EmptyCommand(t *testing.T) {
	_, err := NewExec(nil, logging.Discard())
	assert.ErrorIs(t, err, ErrNoCommand)

	_, err = NewExec([]string{""}, logging.Discard())
	assert.ErrorIs(t, err, ErrNoCommand)
}
