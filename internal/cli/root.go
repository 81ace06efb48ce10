// Package cli implements the tinyj command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tinyj/internal/goals"
	"github.com/mesh-intelligence/tinyj/internal/logging"
	"github.com/mesh-intelligence/tinyj/internal/paths"
	"github.com/mesh-intelligence/tinyj/internal/sqlite"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app is the state shared by one command invocation.
type app struct {
	flags  rootFlags
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg   *viper.Viper
	log   *logging.Logger
	store *sqlite.Backend
}

// NewRootCmd creates the top-level "tinyj" command reading answers from
// in and writing to out and errOut.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newRootCmd(&app{in: in, out: out, errOut: errOut})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tinyj",
		Short: "A personal goal and habit tracker",
		Long: "tinyj records goals, tasks and habits by walking you through a short\n" +
			"interview, keeps them in goal trees and tracks progress and streaks.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newNewCmd(a),
		newAskCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDeleteCmd(a),
		newDoneCmd(a),
		newMissCmd(a),
	)
	return root
}

// Execute runs the root command against the process streams and returns
// the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run executes the command line args and returns the exit code. Errors
// are printed to errOut.
func Run(args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, errOut: errOut}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	// PersistentPostRunE is skipped when a command fails.
	if terr := a.teardown(); err == nil {
		err = terr
	}
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(errOut, "Error:", err)
	return exitCode(err)
}

// setup loads configuration and builds the logger. The store is attached
// lazily by commands that need it.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.cfg, err = loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	if a.flags.logLevel != "" {
		a.cfg.Set(cfgKeyLogLevel, a.flags.logLevel)
	}
	a.log, err = logging.NewWriter(a.errOut, a.cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return userError(err)
	}
	a.log.Debug("config loaded", "config_dir", configDir)
	return nil
}

// teardown detaches the store if a command attached it.
func (a *app) teardown() error {
	if a.log != nil {
		defer a.log.Sync()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Detach()
	a.store = nil
	if err != nil {
		return sysError(fmt.Errorf("detach store: %w", err))
	}
	return nil
}

// storeConfig returns the Store configuration after directory resolution.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{
		Backend:  a.cfg.GetString(cfgKeyBackend),
		DataDir:  dataDir,
		LogLevel: a.cfg.GetString(cfgKeyLogLevel),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(fmt.Errorf("config: %w", err))
	}
	return cfg, nil
}

// service attaches the store and returns a goals service over it.
func (a *app) service() (*goals.Service, error) {
	if a.store == nil {
		cfg, err := a.storeConfig()
		if err != nil {
			return nil, err
		}
		store := sqlite.NewBackend(sqlite.WithLogger(a.log))
		if err := store.Attach(cfg); err != nil {
			return nil, sysError(fmt.Errorf("attach store: %w", err))
		}
		a.store = store
	}
	return goals.NewService(a.store, a.log, nil), nil
}

// cliError carries the exit code for an error.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error { return &cliError{code: exitUserError, err: err} }
func sysError(err error) error  { return &cliError{code: exitSysError, err: err} }

// exitCode maps an error to a process exit code. Errors not tagged by a
// command are treated as user errors (bad flags, wrong arguments).
func exitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}
