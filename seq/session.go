package seq

import (
	"github.com/eluv-io/seqdev-go/format/sessionid"
)

// maxEntrySize is the size of the longest entry: "-9223372036854775808" plus
// the delimiter.
const maxEntrySize = 21

// Session is the state of one open handle on the device: a private cursor
// and an output buffer of fixed capacity. The cursor is initialized from the
// configuration's begin value at open time and evolves independently of the
// shared configuration afterwards.
//
// A Session is owned by the caller that opened it and must not be used by
// multiple goroutines at the same time.
type Session struct {
	id        sessionid.ID
	cursor    int64
	exhausted bool // the cursor overflowed: the last representable value was emitted
	closed    bool
	buf       []byte
	scratch   [maxEntrySize]byte
}

func newSession(id sessionid.ID, begin int64, buf []byte) *Session {
	return &Session{
		id:     id,
		cursor: begin,
		buf:    buf,
	}
}

// ID returns the session's identifier.
func (s *Session) ID() sessionid.ID {
	return s.id
}

// Cursor returns the next value the session will emit.
func (s *Session) Cursor() int64 {
	return s.cursor
}

// BufferSize returns the capacity of the session's output buffer, i.e. the
// maximum number of bytes a single read returns.
func (s *Session) BufferSize() int {
	return len(s.buf)
}

// Closed returns true if the session has been closed.
func (s *Session) Closed() bool {
	return s.closed
}
