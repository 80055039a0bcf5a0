package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func seqctl(fs afero.Fs, stdin string, args ...string) result {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(fs, args, strings.NewReader(stdin), stdout, stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestGet(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"begin", "1\n"},
		{"step", "1\n"},
		{"end", "9223372036854775807\n"},
		{"delimiter", "\n\n"},
	}
	for _, tt := range tests {
		res := seqctl(nil, "", "get", tt.field)
		require.Equal(t, 0, res.code, res.stderr)
		require.Equal(t, tt.want, res.stdout)
	}
}

func TestRead(t *testing.T) {
	res := seqctl(nil, "", "--set", "device.end=5", "read")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "1\n2\n3\n4\n5\n", res.stdout)

	res = seqctl(nil, "", "--set", "device.end=100", "--set", "device.delimiter=,", "read", "--max-bytes", "5", "--limit", "2")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "1,2,3,4,", res.stdout)

	// no entry fits into 1 byte
	res = seqctl(nil, "", "read", "--max-bytes", "1")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "", res.stdout)
}

func TestWrite(t *testing.T) {
	res := seqctl(nil, "", "write", "1", "2", "9")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "5\n", res.stdout)

	res = seqctl(nil, "", "write", "0", "0", "3")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "invalid argument")
	require.NotContains(t, res.stderr, "Usage:")

	res = seqctl(nil, "", "write", "abc")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "invalid config format")
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"frobnicate"},
		{"get"},
		{"get", "size"},
		{"set", "begin", "5"},
		{"read", "--bogus"},
	} {
		res := seqctl(nil, "", args...)
		require.Equal(t, 1, res.code, "%v", args)
		require.Contains(t, res.stderr, "Usage:", "%v", args)
		require.Empty(t, res.stdout, "%v", args)
	}
}

func TestConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "seqdev.yaml", []byte(`
device:
  begin: 10
  step: -3
  end: 0
  delimiter: ' '
log:
  level: error
`), 0644))

	res := seqctl(fs, "", "--config", "seqdev.yaml", "read")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "10 7 4 1 ", res.stdout)

	res = seqctl(fs, "", "--config", "missing.yaml", "read")
	require.Equal(t, 1, res.code)
	require.NotContains(t, res.stderr, "Usage:")

	res = seqctl(nil, "", "--set", "device.step=0", "read")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "invalid argument")
}

func TestShell(t *testing.T) {
	script := `
set delimiter ,
write 1 2 9
read
get delimiter
get step
set step 4
read 3
stats
quit
get begin
`
	res := seqctl(nil, script, "shell")
	require.Equal(t, 0, res.code, res.stderr)

	lines := strings.SplitN(res.stdout, "\n", 4)
	require.Equal(t, "5", lines[0])
	require.Equal(t, "1,3,5,7,9,,", lines[1])
	require.Equal(t, "2", lines[2])

	// stats are printed as indented JSON, and nothing follows "quit"
	stats := lines[3]
	require.True(t, strings.HasPrefix(stats, "{\n"), stats)
	require.True(t, strings.HasSuffix(stats, "}\n"), stats)
	require.Contains(t, stats, `"writes": 1`)
	require.Contains(t, stats, `"control_errors": 0`)

	require.Contains(t, res.stderr, "unsupported operation")
}
