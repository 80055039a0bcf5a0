package sessionid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/seqdev-go/format/sessionid"
)

func TestNew(t *testing.T) {
	seen := map[sessionid.ID]bool{}
	for i := 0; i < 1000; i++ {
		id := sessionid.New()
		require.True(t, id.IsValid(), id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		id    sessionid.ID
		valid bool
	}{
		{"0123456789AB", true},
		{"FFFFFFFFFFFF", true},
		{"0123456789ab", false},
		{"0123456789A", false},
		{"0123456789ABC", false},
		{"0123456789AG", false},
		{"", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.valid, tt.id.IsValid(), tt.id)
	}
}
