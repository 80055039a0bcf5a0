package seq_test

import (
	"fmt"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/seqdev-go/seq"
)

func TestParsePayload(t *testing.T) {
	table := []struct {
		payload string
		begin   int64
		step    int64
		end     int64
	}{
		{"5", 1, 1, 5},
		{"10 20", 10, 1, 20},
		{"0 3", 0, 1, 3},
		{"1 2 7", 1, 2, 7},
		{"10 -3 1", 10, -3, 1},
		{"-5 -10", -5, 1, -10},
		{"+3", 1, 1, 3},
		{"  7\t8 \n 9\n", 7, 8, 9},
		{"9223372036854775807", 1, 1, math.MaxInt64},
		{"-9223372036854775808 1 0", math.MinInt64, 1, 0},
	}

	Convey("Parsing valid payloads should produce correct parameters", t, func() {
		for _, tt := range table {
			Convey(fmt.Sprintf("%q", tt.payload), func() {
				begin, step, end, err := seq.ParsePayload([]byte(tt.payload))
				So(err, ShouldBeNil)
				So(begin, ShouldEqual, tt.begin)
				So(step, ShouldEqual, tt.step)
				So(end, ShouldEqual, tt.end)
			})
		}
	})
}

func TestParsePayloadErrors(t *testing.T) {
	invalidFormat := []string{
		"",
		" \t\n",
		"1 2 3 4",
		"abc",
		"1 abc",
		"1.5",
		"0x10",
		"99999999999999999999",
		"1,2,3",
	}

	Convey("Parsing malformed payloads should fail with invalid config format", t, func() {
		for _, payload := range invalidFormat {
			Convey(fmt.Sprintf("%q", payload), func() {
				_, _, _, err := seq.ParsePayload([]byte(payload))
				So(err, ShouldNotBeNil)
				So(seq.IsInvalidConfigFormat(err), ShouldBeTrue)
				So(seq.IsInvalidArgument(err), ShouldBeFalse)
			})
		}
	})

	Convey("Parsing a zero step should fail with invalid argument", t, func() {
		for _, payload := range []string{"0 0 3", "1 0 1", "5 0 -5"} {
			Convey(fmt.Sprintf("%q", payload), func() {
				_, _, _, err := seq.ParsePayload([]byte(payload))
				So(err, ShouldNotBeNil)
				So(seq.IsInvalidArgument(err), ShouldBeTrue)
				So(seq.IsInvalidConfigFormat(err), ShouldBeFalse)
			})
		}
	})
}

func TestReconfigurer(t *testing.T) {
	cfg := seq.NewSequenceConfig()
	cfg.SetDelimiter(',')
	rec := seq.NewReconfigurer(cfg)

	n, err := rec.Write([]byte("3 5 100"))
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, seq.Snapshot{Begin: 3, Step: 5, End: 100, Delimiter: ','}, cfg.Snapshot())

	snap, err := rec.Apply([]byte("42"))
	require.NoError(t, err)
	require.Equal(t, seq.Snapshot{Begin: 1, Step: 1, End: 42, Delimiter: ','}, snap)
	require.Equal(t, snap, cfg.Snapshot())

	n, err = rec.Write([]byte("x"))
	require.Error(t, err)
	require.Equal(t, 0, n)
	require.Equal(t, snap, cfg.Snapshot())
}
