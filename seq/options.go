package seq

import (
	"fmt"
	"strconv"

	"github.com/eluv-io/errors-go"
)

const (
	// DefaultBufferSize is the capacity of a session's output buffer: one
	// memory page.
	DefaultBufferSize = 4096
	// MinBufferSize is the smallest buffer that holds any single entry.
	MinBufferSize = 32
)

// Options are the construction parameters of a Device: the initial sequence
// configuration and the session resource limits.
type Options struct {
	Begin       int64     `json:"begin"`
	Step        int64     `json:"step"`
	End         int64     `json:"end"`
	Delimiter   Delimiter `json:"delimiter"`
	BufferSize  int       `json:"buffer_size"`  // capacity of each session buffer
	MaxSessions int       `json:"max_sessions"` // max open sessions, unlimited if 0
}

// DefaultOptions returns the options of the default device: the sequence
// 1, 2, 3, ... up to math.MaxInt64, one value per line, page-sized session
// buffers and no session limit.
func DefaultOptions() Options {
	return Options{
		Begin:      DefaultBegin,
		Step:       DefaultStep,
		End:        DefaultEnd,
		Delimiter:  Delimiter(DefaultDelimiter),
		BufferSize: DefaultBufferSize,
	}
}

// Validate checks the options for consistency.
func (o *Options) Validate() error {
	e := errors.Template("Options.Validate", errors.K.Invalid, "reason", ReasonInvalidArgument)
	if o.Step == 0 {
		return e("step", o.Step, "details", "step must not be zero")
	}
	if o.BufferSize < MinBufferSize {
		return e("buffer_size", o.BufferSize, "details", fmt.Sprintf("buffer size must be at least %d", MinBufferSize))
	}
	if o.MaxSessions < 0 {
		return e("max_sessions", o.MaxSessions, "details", "max sessions must not be negative")
	}
	return nil
}

// Delimiter is the separator byte appended to every formatted value. In text
// form (configuration files, command line) it is either a single byte or one
// of the escape sequences \n \r \t \0 \\ \xHH.
type Delimiter byte

func (d Delimiter) String() string {
	text, _ := d.MarshalText()
	return string(text)
}

func (d Delimiter) MarshalText() ([]byte, error) {
	switch d {
	case '\n':
		return []byte(`\n`), nil
	case '\r':
		return []byte(`\r`), nil
	case '\t':
		return []byte(`\t`), nil
	case 0:
		return []byte(`\0`), nil
	case '\\':
		return []byte(`\\`), nil
	}
	if d < 0x20 || d > 0x7e {
		return []byte(fmt.Sprintf(`\x%02x`, byte(d))), nil
	}
	return []byte{byte(d)}, nil
}

func (d *Delimiter) UnmarshalText(text []byte) error {
	e := errors.Template("Delimiter.UnmarshalText", errors.K.Invalid,
		"reason", ReasonInvalidArgument,
		"delimiter", string(text))

	if len(text) == 1 {
		*d = Delimiter(text[0])
		return nil
	}
	if len(text) < 2 || text[0] != '\\' {
		return e("details", "delimiter must be a single byte or escape sequence")
	}

	s := string(text)
	switch s {
	case `\n`:
		*d = '\n'
	case `\r`:
		*d = '\r'
	case `\t`:
		*d = '\t'
	case `\0`:
		*d = 0
	case `\\`:
		*d = '\\'
	default:
		if len(s) != 4 || s[1] != 'x' {
			return e("details", "unknown escape sequence")
		}
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return e(err, "details", "invalid hex escape sequence")
		}
		*d = Delimiter(v)
	}
	return nil
}
