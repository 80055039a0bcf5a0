package seq

import (
	"math"
	"sync"

	"github.com/eluv-io/errors-go"
)

const (
	DefaultBegin     int64 = 1
	DefaultStep      int64 = 1
	DefaultEnd       int64 = math.MaxInt64
	DefaultDelimiter byte  = '\n'
)

// Snapshot is a consistent copy of the generation parameters taken at one
// instant.
type Snapshot struct {
	Begin     int64 `json:"begin"`
	Step      int64 `json:"step"`
	End       int64 `json:"end"`
	Delimiter byte  `json:"delimiter"`
}

// Count returns the number of values a fresh session produces for this
// configuration before it is exhausted. Returns 0 if the sequence is empty
// or the step is zero.
func (s Snapshot) Count() uint64 {
	switch {
	case s.Step > 0 && s.End >= s.Begin:
		return uint64(s.End-s.Begin)/uint64(s.Step) + 1
	case s.Step < 0 && s.End <= s.Begin:
		return uint64(s.Begin-s.End)/negate(s.Step) + 1
	}
	return 0
}

// negate returns -v as unsigned integer, also for math.MinInt64.
func negate(v int64) uint64 {
	return uint64(^v) + 1
}

// SequenceConfig holds the generation parameters shared by all sessions of a
// device. All fields are accessed under a single mutex, and every method holds
// it only for the duration of the field reads or writes. Readers therefore
// see either the state before or after a concurrent update, never a mix.
type SequenceConfig struct {
	mutex     sync.Mutex
	begin     int64
	step      int64
	end       int64
	delimiter byte
}

// NewSequenceConfig creates a configuration with the default parameters:
// begin=1, step=1, end=math.MaxInt64, delimiter='\n'.
func NewSequenceConfig() *SequenceConfig {
	return &SequenceConfig{
		begin:     DefaultBegin,
		step:      DefaultStep,
		end:       DefaultEnd,
		delimiter: DefaultDelimiter,
	}
}

// Snapshot returns all parameters read atomically.
func (c *SequenceConfig) Snapshot() Snapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return Snapshot{
		Begin:     c.begin,
		Step:      c.step,
		End:       c.end,
		Delimiter: c.delimiter,
	}
}

// Replace sets begin, step and end in a single critical section. A zero step
// is rejected and leaves the configuration unchanged.
func (c *SequenceConfig) Replace(begin, step, end int64) error {
	_, err := c.replace(begin, step, end)
	return err
}

// replace works like Replace and returns the configuration as installed.
func (c *SequenceConfig) replace(begin, step, end int64) (Snapshot, error) {
	if step == 0 {
		return Snapshot{}, errors.E("SequenceConfig.Replace", errors.K.Invalid,
			"reason", ReasonInvalidArgument,
			"begin", begin,
			"step", step,
			"end", end)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.begin = begin
	c.step = step
	c.end = end
	return Snapshot{
		Begin:     c.begin,
		Step:      c.step,
		End:       c.end,
		Delimiter: c.delimiter,
	}, nil
}

// SetDelimiter sets the delimiter. Any byte value is accepted.
func (c *SequenceConfig) SetDelimiter(d byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.delimiter = d
}

func (c *SequenceConfig) Begin() int64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.begin
}

func (c *SequenceConfig) Step() int64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.step
}

func (c *SequenceConfig) End() int64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.end
}

func (c *SequenceConfig) Delimiter() byte {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.delimiter
}
