package seq

import (
	"strconv"
)

// fill formats entries starting at the session's cursor into the session's
// buffer, using the parameters of the given snapshot for the whole call. It
// stops when the cursor passes snap.End, or when the next entry does not fit
// into min(maxBytes, buffer size). An entry is never written partially: it is
// left for the next call instead. Returns the number of bytes written and
// whether the end of the sequence was reached.
func fill(s *Session, snap Snapshot, maxBytes int) (n int, eof bool) {
	limit := len(s.buf)
	if maxBytes < limit {
		limit = maxBytes
	}

	for {
		if s.exhausted || passed(s.cursor, snap.Step, snap.End) {
			return n, true
		}

		entry := appendEntry(s.scratch[:0], s.cursor, snap.Delimiter)
		if n+len(entry) > limit {
			return n, false
		}
		n += copy(s.buf[n:], entry)

		next := s.cursor + snap.Step
		if (snap.Step > 0) != (next > s.cursor) {
			// overflow: the value just written was the last representable one
			s.exhausted = true
			continue
		}
		s.cursor = next
	}
}

// passed returns true if cursor lies beyond end in the direction of step. A
// zero step never makes progress and is treated as passed.
func passed(cursor, step, end int64) bool {
	switch {
	case step > 0:
		return cursor > end
	case step < 0:
		return cursor < end
	}
	return true
}

// appendEntry appends the decimal representation of v followed by the
// delimiter to dst.
func appendEntry(dst []byte, v int64, delimiter byte) []byte {
	dst = strconv.AppendInt(dst, v, 10)
	return append(dst, delimiter)
}
