package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/eluv-io/seqdev-go/config"
	"github.com/eluv-io/seqdev-go/seq"
	"github.com/eluv-io/seqdev-go/util/jsonutil"
)

func main() {
	os.Exit(run(afero.NewOsFs(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(fs afero.Fs, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{fs: fs}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	a.close()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		if isUsageError(err) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

// isUsageError returns true for command line errors reported by cobra and for
// unsupported control requests.
func isUsageError(err error) bool {
	if _, ok := err.(*errors.Error); !ok {
		return true
	}
	return seq.IsUnsupportedOperation(err)
}

type app struct {
	fs       afero.Fs
	cfgFile  string
	sets     []string
	logLevel string

	cfg  *config.Config
	dev  *seq.Device
	sess *seq.Session
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seqctl",
		Short: "Read, reconfigure and control an integer sequence device",
		Long: `seqctl creates a sequence device from configuration, opens a session and
runs the given command against it.

Examples:
  seqctl read --limit 1
  seqctl --set device.end=10 --set device.delimiter=, read
  printf 'write 1 2 9\nread\nget step\n' | seqctl shell`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("missing command")
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "configuration file (YAML)")
	root.PersistentFlags().StringArrayVar(&a.sets, "set", nil, "configuration override key=value, e.g. device.end=100")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace|debug|info|warn|error")

	root.AddCommand(
		a.getCmd(),
		a.setCmd(),
		a.readCmd(),
		a.writeCmd(),
		a.shellCmd(),
	)
	return root
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get begin|end|step|delimiter",
		Short: "Print a field of the sequence configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.get(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set delimiter <char>",
		Short: "Set the delimiter to the first byte of <char>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.set(args[0], args[1])
		},
	}
}

func (a *app) readCmd() *cobra.Command {
	var maxBytes, limit int

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the sequence until it is exhausted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxBytes <= 0 {
				maxBytes = a.sess.BufferSize()
			}
			return a.read(cmd.OutOrStdout(), maxBytes, limit)
		},
	}

	cmd.Flags().IntVar(&maxBytes, "max-bytes", 0, "max bytes per read, defaults to the session's buffer size")
	cmd.Flags().IntVar(&limit, "limit", 0, "max number of reads, 0 for no limit")
	return cmd
}

func (a *app) writeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <end> | <begin> <end> | <begin> <step> <end>",
		Short: "Reconfigure the sequence and print the number of bytes consumed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.write(cmd.OutOrStdout(), args)
		},
	}
}

func (a *app) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands read line by line from stdin against a single session",
		Long: `Runs commands read line by line from stdin against a single session:

  get begin|end|step|delimiter
  set delimiter <char>
  read [max-bytes]
  write <tokens...>
  stats
  quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.shell(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// open loads the configuration, sets up logging and opens a session on a new
// device.
func (a *app) open(*cobra.Command, []string) (err error) {
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.fs, a.cfgFile)
		if err != nil {
			return err
		}
	} else {
		a.cfg = config.Default()
		// keep stdout free of lifecycle logs
		a.cfg.Log.Level = "error"
	}
	if err = a.cfg.Override(a.sets...); err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if err = a.cfg.Validate(); err != nil {
		return err
	}
	elog.SetDefault(a.cfg.Log)

	a.dev, err = seq.New(&a.cfg.Device)
	if err != nil {
		return err
	}
	a.sess, err = a.dev.Open()
	return err
}

func (a *app) close() {
	if a.sess != nil && !a.sess.Closed() {
		_ = a.dev.Close(a.sess)
	}
}

func (a *app) get(w io.Writer, field string) error {
	cmd, err := seq.ParseCommand("get", field)
	if err != nil {
		return err
	}
	v, err := a.dev.Control(a.sess, cmd, 0)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, v.String())
	return err
}

func (a *app) set(field, value string) error {
	cmd, err := seq.ParseCommand("set", field)
	if err != nil {
		return err
	}
	if value == "" {
		return errors.E("set", errors.K.Invalid, "reason", seq.ReasonInvalidArgument, "details", "empty value")
	}
	_, err = a.dev.Control(a.sess, cmd, value[0])
	return err
}

// read performs up to limit reads of at most maxBytes each and stops at the
// first empty read.
func (a *app) read(w io.Writer, maxBytes, limit int) error {
	for i := 0; limit <= 0 || i < limit; i++ {
		buf, err := a.dev.Read(a.sess, maxBytes)
		if err != nil {
			return err
		}
		if len(buf) == 0 {
			return nil
		}
		if _, err = w.Write(buf); err != nil {
			return errors.E("read", errors.K.IO, err)
		}
	}
	return nil
}

func (a *app) write(w io.Writer, tokens []string) error {
	n, err := a.dev.Write(a.sess, []byte(strings.Join(tokens, " ")))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, n)
	return err
}

// shell executes the commands read from r. Failed commands are reported on
// errOut and do not end the shell.
func (a *app) shell(r io.Reader, w, errOut io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}
		if err := a.exec(w, args); err != nil {
			fmt.Fprintln(errOut, "Error:", err)
		}
	}
	return scanner.Err()
}

func (a *app) exec(w io.Writer, args []string) error {
	e := errors.Template("shell", errors.K.NotImplemented,
		"reason", seq.ReasonUnsupportedOperation,
		"command", strings.Join(args, " "))

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return e()
		}
		return a.get(w, args[1])
	case "set":
		if len(args) != 3 {
			return e()
		}
		return a.set(args[1], args[2])
	case "read":
		maxBytes := a.sess.BufferSize()
		switch len(args) {
		case 1:
		case 2:
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.E("shell", errors.K.Invalid, err, "reason", seq.ReasonInvalidArgument)
			}
			maxBytes = n
		default:
			return e()
		}
		return a.read(w, maxBytes, 1)
	case "write":
		if len(args) < 2 {
			return e()
		}
		return a.write(w, args[1:])
	case "stats":
		_, err := fmt.Fprintln(w, jsonutil.MarshalString(a.dev.Metrics()))
		return err
	}
	return e()
}
