package sessionid

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// ID is a session identifier: 12 upper-case hex characters (6 random bytes).
type ID string

// New creates a new random session ID.
func New() ID {
	bts := make([]byte, 6)
	_, _ = rand.Read(bts)
	return ID(strings.ToUpper(hex.EncodeToString(bts)))
}

func (id ID) String() string {
	return string(id)
}

// IsValid returns true if the ID has the format produced by New.
func (id ID) IsValid() bool {
	if len(id) != 12 {
		return false
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
