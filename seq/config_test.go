package seq

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestSequenceConfigDefaults(t *testing.T) {
	cfg := NewSequenceConfig()
	require.Equal(t, Snapshot{Begin: 1, Step: 1, End: math.MaxInt64, Delimiter: '\n'}, cfg.Snapshot())
	require.Equal(t, int64(1), cfg.Begin())
	require.Equal(t, int64(1), cfg.Step())
	require.Equal(t, int64(math.MaxInt64), cfg.End())
	require.Equal(t, byte('\n'), cfg.Delimiter())
}

func TestSequenceConfigReplace(t *testing.T) {
	cfg := NewSequenceConfig()
	cfg.SetDelimiter(';')

	require.NoError(t, cfg.Replace(-3, 4, 17))
	require.Equal(t, Snapshot{Begin: -3, Step: 4, End: 17, Delimiter: ';'}, cfg.Snapshot())

	err := cfg.Replace(1, 0, 10)
	require.True(t, IsInvalidArgument(err), err)
	require.Equal(t, Snapshot{Begin: -3, Step: 4, End: 17, Delimiter: ';'}, cfg.Snapshot())
}

func TestSnapshotCount(t *testing.T) {
	tests := []struct {
		snap Snapshot
		want uint64
	}{
		{Snapshot{Begin: 1, Step: 1, End: 10}, 10},
		{Snapshot{Begin: 1, Step: 2, End: 5}, 3},
		{Snapshot{Begin: 1, Step: 2, End: 6}, 3},
		{Snapshot{Begin: 5, Step: 1, End: 5}, 1},
		{Snapshot{Begin: 6, Step: 1, End: 5}, 0},
		{Snapshot{Begin: 10, Step: -3, End: 1}, 4},
		{Snapshot{Begin: 1, Step: -1, End: 5}, 0},
		{Snapshot{Begin: 1, Step: 0, End: 5}, 0},
		{Snapshot{Begin: math.MinInt64, Step: math.MaxInt64, End: math.MaxInt64}, 3},
		{Snapshot{Begin: math.MaxInt64, Step: math.MinInt64, End: math.MinInt64}, 2},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.snap.Count(), "%+v", tt.snap)
	}
}

// TestConcurrentWritesAreLinearizable runs concurrent reconfigurations and
// snapshots. Every payload satisfies step == begin+1 and end == 10*begin, so a
// torn update would be visible as a violation of these relations.
func TestConcurrentWritesAreLinearizable(t *testing.T) {
	cfg := NewSequenceConfig()
	rec := NewReconfigurer(cfg)
	require.NoError(t, cfg.Replace(1, 2, 10))

	consistent := func(s Snapshot) bool {
		return s.Step == s.Begin+1 && s.End == 10*s.Begin
	}

	writers := 20
	stop := atomic.NewBool(false)
	torn := atomic.NewInt64(0)
	failed := atomic.NewInt64(0)

	readers := &sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for !stop.Load() {
				if !consistent(cfg.Snapshot()) {
					torn.Inc()
				}
			}
		}()
	}

	wg := &sync.WaitGroup{}
	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := []byte(fmt.Sprintf("%d %d %d", i, i+1, 10*i))
			for j := 0; j < 200; j++ {
				if _, err := rec.Write(payload); err != nil {
					failed.Inc()
				}
			}
		}(i)
	}
	wg.Wait()
	stop.Store(true)
	readers.Wait()

	require.EqualValues(t, 0, failed.Load())
	require.EqualValues(t, 0, torn.Load())
	final := cfg.Snapshot()
	require.True(t, consistent(final), "%+v", final)
	require.True(t, final.Begin >= 1 && final.Begin <= int64(writers), "%+v", final)
}
