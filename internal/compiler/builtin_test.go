package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/typekeeper/internal/artifact"
	"github.com/dmitrijs2005/typekeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNS = "typekeeper.vault.credentials"

func writeUnit(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestBuiltin_CompilesUnit(t *testing.T) {
	for _, codec := range []artifact.Codec{artifact.CBORCodec{}, artifact.WireCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			dir := t.TempDir()
			src := writeUnit(t, dir, "alice.unit", aliceUnit)
			out := filepath.Join(dir, "alice.art")

			c := NewBuiltin(testNS, codec, logging.Discard())
			require.NoError(t, c.Compile(context.Background(), src, out))

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			class, err := artifact.Unmarshal(data)
			require.NoError(t, err)

			assert.Equal(t, testNS, class.Package)
			assert.Equal(t, "alice", class.Name)
			m, err := class.FirstMember()
			require.NoError(t, err)
			assert.Equal(t, "secret123", m.Name)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 2, "no temp files may remain")
		})
	}
}

func TestBuiltin_MultiSegmentExtension(t *testing.T) {
	dir := t.TempDir()
	src := writeUnit(t, dir, "alice.tk.unit", aliceUnit)
	out := filepath.Join(dir, "alice.tk.art")

	require.NoError(t, NewBuiltin(testNS, artifact.CBORCodec{}, logging.Discard()).Compile(context.Background(), src, out))

	src = writeUnit(t, dir, "bob.tk.unit", aliceUnit)
	err := NewBuiltin(testNS, artifact.CBORCodec{}, logging.Discard()).Compile(context.Background(), src, filepath.Join(dir, "bob.tk.art"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be declared in a unit named alice.tk.unit")
}

func TestBuiltin_SemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		want string
	}{
		{name: "wrong package", file: "alice.unit", src: "package other; class alice { void p() {} }", want: "does not match namespace"},
		{name: "file name mismatch", file: "bob.unit", src: "package " + testNS + "; class alice { void p() {} }", want: "must be declared in a unit named alice.unit"},
		{name: "no type", file: "alice.unit", src: "package " + testNS + ";", want: "no type declared"},
		{name: "two types", file: "alice.unit", src: "package " + testNS + "; class alice { void p() {} } class bob {}", want: "only one type"},
		{name: "duplicate member", file: "alice.unit", src: "package " + testNS + "; class alice { void p() {} void p() {} }", want: "already declared"},
		{name: "syntax", file: "alice.unit", src: "package " + testNS + "; class alice { void p( {} }", want: "expected ')'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeUnit(t, dir, tt.file, tt.src)
			out := filepath.Join(dir, "alice.art")

			err := NewBuiltin(testNS, artifact.CBORCodec{}, logging.Discard()).Compile(context.Background(), src, out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCompile))

			var ce *CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, src, ce.Source)
			assert.Contains(t, ce.Error(), tt.want)

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "no artifact on failure")
		})
	}
}

func TestBuiltin_FailureKeepsPreviousArtifact(t *testing.T) {
	dir := t.TempDir()
	src := writeUnit(t, dir, "alice.unit", aliceUnit)
	out := filepath.Join(dir, "alice.art")

	c := NewBuiltin(testNS, artifact.CBORCodec{}, logging.Discard())
	require.NoError(t, c.Compile(context.Background(), src, out))
	before, err := os.ReadFile(out)
	require.NoError(t, err)

	writeUnit(t, dir, "alice.unit", "package "+testNS+"; class alice { void class() {} }")
	require.Error(t, c.Compile(context.Background(), src, out))

	after, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBuiltin_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := NewBuiltin(testNS, artifact.CBORCodec{}, logging.Discard()).
		Compile(context.Background(), filepath.Join(dir, "none.unit"), filepath.Join(dir, "none.art"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCompile))
}
