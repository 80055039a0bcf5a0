package seq

import (
	"go.uber.org/atomic"

	"github.com/eluv-io/seqdev-go/util/jsonutil"
	"github.com/eluv-io/seqdev-go/util/sessiontracker"
)

// Metrics are the counters of a device since its creation.
type Metrics struct {
	Sessions      sessiontracker.SessionMetrics `json:"sessions"`
	Buffers       BufferMetrics                 `json:"buffers"`
	Reads         int64                         `json:"reads"`
	BytesRead     int64                         `json:"bytes_read"`
	Writes        int64                         `json:"writes"`
	WriteErrors   int64                         `json:"write_errors"`
	ControlCalls  int64                         `json:"control_calls"`
	ControlErrors int64                         `json:"control_errors"`
}

type BufferMetrics struct {
	Created     int64 `json:"created"`
	Released    int64 `json:"released"`
	Outstanding int   `json:"outstanding"`
}

func (m *Metrics) String() string {
	return jsonutil.MarshalCompactString(m)
}

// counters are the live, lock-free counterparts of Metrics.
type counters struct {
	reads         atomic.Int64
	bytesRead     atomic.Int64
	writes        atomic.Int64
	writeErrors   atomic.Int64
	controlCalls  atomic.Int64
	controlErrors atomic.Int64
	buffersNew    counter
	buffersFreed  counter
}

// counter adapts an atomic integer to the byteutil.Counter interface.
type counter struct {
	n atomic.Int64
}

func (c *counter) Add(delta float64) {
	c.n.Add(int64(delta))
}
