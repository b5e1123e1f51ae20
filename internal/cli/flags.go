package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/olympus/internal/tui"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output is text or json.
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet lowers logging to warnings.
	Quiet bool
	// ConfigFile replaces ~/.olympus/config.yaml when set.
	ConfigFile string
}

// AddGlobalFlags registers the persistent flags on cmd.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", tui.FormatText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "config file (default ~/.olympus/config.yaml)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds the persistent flags to v so OLYMPUS_OUTPUT,
// OLYMPUS_VERBOSE and OLYMPUS_QUIET can stand in for them.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()
	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}
	v.SetEnvPrefix("OLYMPUS")
	v.AutomaticEnv()
	return nil
}
