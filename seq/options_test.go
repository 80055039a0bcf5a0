package seq_test

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/seqdev-go/seq"
)

func TestDelimiterText(t *testing.T) {
	table := []struct {
		d    seq.Delimiter
		text string
	}{
		{'\n', `\n`},
		{'\r', `\r`},
		{'\t', `\t`},
		{0, `\0`},
		{'\\', `\\`},
		{',', `,`},
		{' ', ` `},
		{'x', `x`},
		{0x1b, `\x1b`},
		{0x7f, `\x7f`},
		{0xff, `\xff`},
	}

	Convey("Delimiters should round-trip through their text form", t, func() {
		for _, tt := range table {
			Convey(fmt.Sprintf("%#02x <-> %s", byte(tt.d), tt.text), func() {
				b, err := tt.d.MarshalText()
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, tt.text)
				So(tt.d.String(), ShouldEqual, tt.text)

				var d seq.Delimiter
				So(d.UnmarshalText([]byte(tt.text)), ShouldBeNil)
				So(d, ShouldEqual, tt.d)
			})
		}
	})

	Convey("Invalid delimiter text should be rejected", t, func() {
		for _, text := range []string{"", "ab", `\q`, `\x1`, `\xzz`, `\x123`} {
			Convey(fmt.Sprintf("%q", text), func() {
				var d seq.Delimiter
				err := d.UnmarshalText([]byte(text))
				So(err, ShouldNotBeNil)
				So(seq.IsInvalidArgument(err), ShouldBeTrue)
			})
		}
	})
}

func TestOptionsValidate(t *testing.T) {
	opts := seq.DefaultOptions()
	require.NoError(t, opts.Validate())
	require.Equal(t, seq.DefaultBufferSize, opts.BufferSize)
	require.Equal(t, seq.Delimiter('\n'), opts.Delimiter)

	tests := []func(o *seq.Options){
		func(o *seq.Options) { o.Step = 0 },
		func(o *seq.Options) { o.BufferSize = seq.MinBufferSize - 1 },
		func(o *seq.Options) { o.BufferSize = 0 },
		func(o *seq.Options) { o.MaxSessions = -1 },
	}
	for i, mod := range tests {
		o := seq.DefaultOptions()
		mod(&o)
		err := o.Validate()
		require.True(t, seq.IsInvalidArgument(err), "case %d: %v", i, err)
	}

	o := seq.DefaultOptions()
	o.Step = -2
	o.BufferSize = seq.MinBufferSize
	o.MaxSessions = 3
	require.NoError(t, o.Validate())
}
