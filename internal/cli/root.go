// Package cli provides the command-line interface for olympus.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalLogger is set during PersistentPreRunE and read through GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger initialized by the root command. Before
// PersistentPreRunE runs it returns a zero logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func setLogger(l zerolog.Logger) {
	globalLoggerMu.Lock()
	globalLogger = l
	globalLoggerMu.Unlock()
}

// newRootCmd builds the command tree. initLogger is swapped out by tests.
func newRootCmd(flags *GlobalFlags, info BuildInfo, initLogger func(verbose, quiet bool) zerolog.Logger) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "olympus",
		Short: "Olympus - a self-evolving hub for multi-agent task orchestration",
		Long: `Olympus receives natural-language tasks, decomposes them into subtasks,
forms a claw of skill-matched agents, executes the work, recovers from
failures and learns reusable patterns from delivered results.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			flags.Output = v.GetString("output")
			flags.Verbose = v.GetBool("verbose")
			flags.Quiet = v.GetBool("quiet")
			if !tui.IsValidFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, tui.ValidFormats())
			}
			setLogger(initLogger(flags.Verbose, flags.Quiet))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddRunCommand(cmd, flags)
	AddServeCommand(cmd, flags)
	AddStatusCommand(cmd, flags)
	AddAgentsCommand(cmd, flags)
	AddPatternsCommand(cmd, flags)
	AddRulesCommand(cmd, flags)
	AddEvolveCommand(cmd, flags)
	AddConfigCommand(cmd, flags)

	return cmd
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command. Errors are printed with a suggested
// action before being returned.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, InitLogger)
	defer CloseLogFile()

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		printError(cmd, flags, err)
	}
	return err
}

func printError(cmd *cobra.Command, flags *GlobalFlags, err error) {
	out := tui.NewOutput(cmd.ErrOrStderr(), flags.Output)
	out.Error(err)
	if flags.Output == tui.FormatJSON {
		return
	}
	if msg, action := errors.Actionable(err); action != "" {
		out.Info(msg + " " + action)
	}
}
