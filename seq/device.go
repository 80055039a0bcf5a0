package seq

import (
	"io"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"

	"github.com/eluv-io/seqdev-go/format/sessionid"
	"github.com/eluv-io/seqdev-go/util/byteutil"
	"github.com/eluv-io/seqdev-go/util/jsonutil"
	"github.com/eluv-io/seqdev-go/util/sessiontracker"
)

var log = elog.Get("/eluvio/seqdev/seq")

// Device is the sequence resource: a single shared SequenceConfig, accessed
// through sessions that stream formatted values, reconfigure the sequence and
// query or set individual fields.
//
// All methods are safe for concurrent use across sessions. A single session
// must not be used concurrently.
type Device struct {
	cfg      *SequenceConfig
	ctl      *ControlChannel
	rec      *Reconfigurer
	pool     *byteutil.Pool
	sessions sessiontracker.Tracker
	counters counters
}

// New creates a device with the given options. Nil options create a device
// with DefaultOptions.
func New(opts *Options) (*Device, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	cfg := NewSequenceConfig()
	if err := cfg.Replace(o.Begin, o.Step, o.End); err != nil {
		return nil, err
	}
	cfg.SetDelimiter(byte(o.Delimiter))

	d := &Device{
		cfg:      cfg,
		ctl:      NewControlChannel(cfg),
		rec:      NewReconfigurer(cfg),
		pool:     byteutil.NewPool(o.BufferSize, o.MaxSessions),
		sessions: sessiontracker.New(),
	}
	d.pool.SetMetrics(&d.counters.buffersNew, &d.counters.buffersFreed)

	log.Debug("device created", "options", jsonutil.Stringer(o))
	return d, nil
}

// Open opens a new session. The session's cursor starts at the current begin
// value of the configuration. Returns an OutOfMemory error if no buffer can
// be allocated for the session.
func (d *Device) Open() (*Session, error) {
	buf, err := d.pool.Get()
	if err != nil {
		log.Warn("open failed", "error", err)
		return nil, errors.E("Device.Open", errors.K.Unavailable, err,
			"reason", ReasonOutOfMemory,
			"open_sessions", d.sessions.Count())
	}

	id := sessionid.New()
	for !d.sessions.Add(id.String()) {
		id = sessionid.New()
	}

	s := newSession(id, d.cfg.Begin(), buf)
	log.Debug("session opened", "session", s.id, "cursor", s.cursor)
	return s, nil
}

// Close closes the session and releases its buffer. The session must not be
// used afterwards: any further call returns a UseAfterClose error.
func (d *Device) Close(s *Session) error {
	if err := d.check("Device.Close", s); err != nil {
		return err
	}

	s.closed = true
	d.pool.Put(s.buf)
	s.buf = nil
	d.sessions.Remove(s.id.String())

	log.Debug("session closed", "session", s.id, "cursor", s.cursor)
	return nil
}

// Read returns the next formatted entries of the session, at most maxBytes
// bytes and never more than the session's buffer size. Entries are never
// split: an entry that does not fit is returned by a later call. An empty
// result without error signals that the sequence is exhausted or that
// maxBytes is too small for the next entry.
//
// The returned slice is owned by the caller.
func (d *Device) Read(s *Session, maxBytes int) ([]byte, error) {
	buf, _, err := d.read("Device.Read", s, maxBytes)
	if err != nil {
		return nil, err
	}
	res := make([]byte, len(buf))
	copy(res, buf)
	return res, nil
}

// read performs a read into the session's buffer and returns the filled part
// of the buffer, which is only valid until the next read.
func (d *Device) read(op string, s *Session, maxBytes int) (buf []byte, eof bool, err error) {
	if err = d.check(op, s); err != nil {
		return nil, false, err
	}

	snap := d.cfg.Snapshot()
	n, eof := fill(s, snap, maxBytes)

	d.counters.reads.Inc()
	d.counters.bytesRead.Add(int64(n))
	if log.IsDebug() {
		log.Debug("read", "session", s.id, "max_bytes", maxBytes, "bytes", n, "cursor", s.cursor, "eof", eof)
	}
	return s.buf[:n], eof, nil
}

// Reader returns an io.Reader view of the session. It returns io.EOF once the
// sequence is exhausted and io.ErrShortBuffer if the slice passed to Read is
// too small for the next entry.
func (d *Device) Reader(s *Session) io.Reader {
	return &sessionReader{d: d, s: s}
}

type sessionReader struct {
	d *Device
	s *Session
}

func (r *sessionReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	buf, eof, err := r.d.read("Session.Read", r.s, len(p))
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		if eof {
			return 0, io.EOF
		}
		return 0, io.ErrShortBuffer
	}
	return copy(p, buf), nil
}

// Write reconfigures the sequence from the given payload of 1 to 3 integers
// (see ParsePayload) and returns the number of bytes consumed. The cursors of
// open sessions, including s, are not changed: they continue against the new
// step and end, while the new begin applies to sessions opened later. On
// failure, the configuration is unchanged.
func (d *Device) Write(s *Session, payload []byte) (int, error) {
	if err := d.check("Device.Write", s); err != nil {
		return 0, err
	}

	snap, err := d.rec.Apply(payload)
	if err != nil {
		d.counters.writeErrors.Inc()
		log.Warn("reconfiguration rejected", "session", s.id, "error", err)
		return 0, err
	}
	d.counters.writes.Inc()

	log.Info("sequence reconfigured", "session", s.id, "begin", snap.Begin, "step", snap.Step, "end", snap.End)
	return len(payload), nil
}

// ControlGet returns the current value of the given field.
func (d *Device) ControlGet(s *Session, field Field) (Value, error) {
	if err := d.check("Device.ControlGet", s); err != nil {
		return Value{}, err
	}
	v, err := d.ctl.Get(field)
	d.countControl(err)
	return v, err
}

// ControlSet sets the given field. Only the delimiter can be set; other fields
// result in an UnsupportedOperation error.
func (d *Device) ControlSet(s *Session, field Field, value byte) error {
	if err := d.check("Device.ControlSet", s); err != nil {
		return err
	}
	err := d.ctl.Set(field, value)
	d.countControl(err)
	if err == nil {
		log.Info("delimiter set", "session", s.id, "delimiter", Delimiter(value))
	}
	return err
}

// Control dispatches a control command. arg is only used by SetDelimiter.
func (d *Device) Control(s *Session, cmd Command, arg byte) (Value, error) {
	if err := d.check("Device.Control", s); err != nil {
		return Value{}, err
	}
	v, err := d.ctl.Do(cmd, arg)
	d.countControl(err)
	return v, err
}

func (d *Device) countControl(err error) {
	d.counters.controlCalls.Inc()
	if err != nil {
		d.counters.controlErrors.Inc()
		log.Warn("control request rejected", "error", err)
	}
}

// Snapshot returns the current configuration.
func (d *Device) Snapshot() Snapshot {
	return d.cfg.Snapshot()
}

// Sessions returns the open sessions.
func (d *Device) Sessions() []sessiontracker.SessionInfo {
	return d.sessions.List()
}

// Metrics returns the device's counters.
func (d *Device) Metrics() Metrics {
	return Metrics{
		Sessions: d.sessions.SessionMetrics(),
		Buffers: BufferMetrics{
			Created:     d.counters.buffersNew.n.Load(),
			Released:    d.counters.buffersFreed.n.Load(),
			Outstanding: d.pool.Outstanding(),
		},
		Reads:         d.counters.reads.Load(),
		BytesRead:     d.counters.bytesRead.Load(),
		Writes:        d.counters.writes.Load(),
		WriteErrors:   d.counters.writeErrors.Load(),
		ControlCalls:  d.counters.controlCalls.Load(),
		ControlErrors: d.counters.controlErrors.Load(),
	}
}

// check rejects nil and closed sessions, and sessions that were never opened.
func (d *Device) check(op string, s *Session) error {
	if s == nil {
		return errors.E(op, errors.K.Invalid, "reason", ReasonUseAfterClose, "session", "nil")
	}
	if !s.id.IsValid() {
		return errors.E(op, errors.K.Invalid, "reason", ReasonUseAfterClose, "session", "not opened")
	}
	if s.closed {
		return errors.E(op, errors.K.Invalid, "reason", ReasonUseAfterClose, "session", s.id)
	}
	return nil
}
