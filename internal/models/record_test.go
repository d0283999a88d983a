package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortByUsername(t *testing.T) {
	in := []Record{
		{Username: "carol", Password: "c"},
		{Username: "alice", Password: "a"},
		{Username: "bob", Password: "b"},
	}
	SortByUsername(in)

	require.Equal(t, []Record{
		{Username: "alice", Password: "a"},
		{Username: "bob", Password: "b"},
		{Username: "carol", Password: "c"},
	}, in)
}

func TestSortByUsername_Empty(t *testing.T) {
	require.NotPanics(t, func() { SortByUsername(nil) })
}
