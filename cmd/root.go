package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xll-gen/webtoc/internal/blob"
	"github.com/xll-gen/webtoc/internal/codec"
	"github.com/xll-gen/webtoc/internal/config"
	"github.com/xll-gen/webtoc/internal/emitter"
	"github.com/xll-gen/webtoc/pkg/log"
)

// Process exit codes.
const (
	exitOK      = 0
	exitUsage   = 1
	exitFailure = 2
)

// errUsage is returned when the command line does not name exactly one file.
var errUsage = errors.New("wrong number of arguments")

// labeledError attaches the diagnostic label printed in front of err.
type labeledError struct {
	label string
	err   error
}

func (e *labeledError) Error() string { return e.err.Error() }

func (e *labeledError) Unwrap() error { return e.err }

// options holds the values of the root command's flags.
type options struct {
	configPath string
	compress   bool
	codec      string
	level      int
	width      int
	prefix     string
	logLevel   string
	logFile    string
}

// newRootCmd builds the webtoc command writing the array literal to stdout
// and diagnostics to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "webtoc [flags] file",
		Short: "Emit a file as a C byte array for embedding",
		Long: `webtoc reads a file, optionally compresses it, and prints a
"static const char web_file_<name>[]" declaration holding its bytes.
Uncompressed output is NUL terminated so it can be served as a C string.

A file name starting with "-" must follow "--", as in "webtoc -- -x.bin".`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd.Flags(), opts, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.BoolVarP(&opts.compress, "compress", "z", false, "Compress the file instead of NUL terminating it")
	f.StringVar(&opts.codec, "codec", codec.NameGzip, "Compression codec (gzip, zstd)")
	f.IntVar(&opts.level, "level", 0, "Compression level, 0 for the codec default")
	f.IntVar(&opts.width, "width", emitter.DefaultWidth, "Values per output line")
	f.StringVar(&opts.prefix, "prefix", emitter.DefaultPrefix, "Prefix of the array name")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&opts.logFile, "log-file", "", "Append logs to this file instead of stderr")

	return cmd
}

// Execute runs the root command with the process arguments and exits with
// a non-zero status on failure. It is called by main.main().
func Execute() {
	if code := run(os.Args[0], os.Args[1:], os.Stdout, os.Stderr); code != exitOK {
		os.Exit(code)
	}
}

// run executes the command line and maps its outcome to an exit code.
// The usage line goes to stdout; every other diagnostic goes to stderr.
func run(progName string, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errUsage) {
		fmt.Fprintf(stdout, "Usage %s file\n", progName)
		return exitUsage
	}

	label := "error"
	var lerr *labeledError
	if errors.As(err, &lerr) {
		label = lerr.label
	}
	printError(stderr, label, err.Error())
	return exitFailure
}

// resolve merges defaults, the optional config file and explicitly set flags.
func (o *options) resolve(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("compress") {
		cfg.Emit.Compress = o.compress
	}
	if flags.Changed("codec") {
		cfg.Emit.Codec = o.codec
	}
	if flags.Changed("level") {
		cfg.Emit.Level = o.level
	}
	if flags.Changed("width") {
		cfg.Emit.Width = o.width
		if o.width == 0 {
			return nil, fmt.Errorf("invalid width: 0 (must be at least 1)")
		}
	}
	if flags.Changed("prefix") {
		prefix := o.prefix
		cfg.Emit.Prefix = &prefix
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.Path = o.logFile
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runEmit loads the file named by path and writes its declaration to stdout.
// Nothing is written to stdout unless the whole declaration was rendered.
func runEmit(flags *pflag.FlagSet, opts *options, path string, stdout, stderr io.Writer) error {
	cfg, err := opts.resolve(flags)
	if err != nil {
		return &labeledError{label: "config", err: err}
	}

	closeLog, err := log.Init(stderr, cfg.Logging.Path, cfg.Logging.Level)
	if err != nil {
		return &labeledError{label: "log", err: fmt.Errorf("failed to open log file: %w", err)}
	}
	defer closeLog()

	enc, err := cfg.Encoder()
	if err != nil {
		return &labeledError{label: "config", err: err}
	}

	b, err := blob.Load(path, enc)
	if err != nil {
		var rerr *blob.ReadError
		if errors.As(err, &rerr) {
			return &labeledError{label: "I/O error", err: err}
		}
		return &labeledError{label: "encode", err: err}
	}
	slog.Debug("read input", "path", b.SourcePath, "bytes", len(b.Raw), "digest", b.Digest.String())
	slog.Debug("encoded", "codec", b.Codec, "bytes", len(b.Encoded))

	eopts := cfg.EmitterOptions()
	out := emitter.New(eopts).Render(b.Name, b.Encoded)
	if _, err := stdout.Write(out); err != nil {
		return &labeledError{label: "output", err: fmt.Errorf("failed to write output: %w", err)}
	}
	slog.Debug("emitted", "array", eopts.Prefix+b.Name, "elements", len(b.Encoded))
	return nil
}
