package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, terminal bool, pw []byte, err error) {
	t.Helper()
	origRead, origIs := readPassword, isTerminal
	readPassword = func(int) ([]byte, error) { return pw, err }
	isTerminal = func(int) bool { return terminal }
	t.Cleanup(func() { readPassword, isTerminal = origRead, origIs })
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("  alice \n")), "Enter username", &out)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "Enter username\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("lastline")), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("secret123"), nil)

	var out bytes.Buffer
	got, err := GetPassword(bufio.NewReader(strings.NewReader("")), &out)
	require.NoError(t, err)
	assert.Equal(t, "secret123", got)
	assert.Equal(t, "Enter password: \n", out.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))

	_, err := GetPassword(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	require.EqualError(t, err, "boom")
}

func TestGetPassword_NotATerminal(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))

	got, err := GetPassword(bufio.NewReader(strings.NewReader("hunter2\n")), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}
