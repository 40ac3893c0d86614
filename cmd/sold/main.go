package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sold/internal/logger"
	"sold/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sold [flags] <input>",
	Short: "TVM Solidity compiler driver",
	Long: `sold compiles a Solidity source into a deployable TVM contract:
interface description, assembly, signed container, and debug map.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         buildExecution,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cleanCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose logging")
	rootCmd.PersistentPreRunE = configureSession

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureSession(cmd *cobra.Command, _ []string) error {
	colorValue, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch strings.TrimSpace(strings.ToLower(colorValue)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorValue)
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	logger.SetVerbose(verbose)
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
