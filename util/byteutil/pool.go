package byteutil

import (
	"sync"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
	"go.uber.org/atomic"
)

var log = elog.Get("/eluvio/util/byteutil")

type Counter interface {
	Add(delta float64)
}

// Pool is a buffer pool that hands out buffers of a fixed size and bounds the
// number of buffers that are checked out at the same time. Buffers returned
// with Put are cycled back into a backing sync.Pool and re-used by subsequent
// calls to Get. Get fails with an errors.K.Unavailable error once Limit
// buffers are outstanding; a Limit <= 0 means no bound.
//
// Buffers are handed out with length BufSize. Callers must return the buffer
// they received (possibly re-sliced to a shorter length, but never to a
// different capacity) and must not use it after Put.
type Pool struct {
	BufSize int // Size of buffers
	Limit   int // Max number of outstanding buffers, unbounded if <= 0

	p           sync.Pool    // Backing pool
	outstanding atomic.Int64 // Number of buffers currently checked out
	created     Counter      // Metric for created buffers
	released    Counter      // Metrics for released buffers
}

// NewPool creates a new buffer pool to service buffers of size bufSize, with
// at most limit buffers outstanding at any time.
func NewPool(bufSize int, limit int) *Pool {
	p := &Pool{
		BufSize: bufSize,
		Limit:   limit,
	}
	p.p.New = p.new
	return p
}

// Get retrieves a buffer from the pool; if no previous buffers are available,
// a new buffer is created. Returns an error if the limit of outstanding
// buffers is reached.
func (p *Pool) Get() ([]byte, error) {
	n := p.outstanding.Inc()
	if p.Limit > 0 && n > int64(p.Limit) {
		p.outstanding.Dec()
		return nil, errors.E("Pool.Get", errors.K.Unavailable,
			"reason", "buffer limit reached",
			"limit", p.Limit,
			"buf_size", p.BufSize)
	}
	buf := *(p.p.Get().(*[]byte))
	return buf[:p.BufSize], nil
}

// Put releases the given buffer back into the pool. Buffers of a foreign
// capacity are dropped (but still count as released).
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}
	p.outstanding.Dec()
	if p.released != nil {
		p.released.Add(1)
	}
	if cap(buf) != p.BufSize {
		log.Debug("buffer not released back into pool", "expected_size", p.BufSize, "actual_size", cap(buf))
		return
	}
	buf = buf[:p.BufSize]
	p.p.Put(&buf)
}

// Outstanding returns the number of buffers currently checked out.
func (p *Pool) Outstanding() int {
	return int(p.outstanding.Load())
}

func (p *Pool) SetMetrics(created, released Counter) {
	p.created = created
	p.released = released
}

// Creates a byte buffer of configured size.
func (p *Pool) new() interface{} {
	buf := make([]byte, p.BufSize)
	if p.created != nil {
		p.created.Add(1)
	}
	return &buf
}
