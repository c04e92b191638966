// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall list               - List available modes
//	blockfall play [mode]        - Play a match
//	blockfall serve              - Start SSH server for remote play
//	blockfall matches            - Browse the match journal
//	blockfall replay <id>        - Re-simulate a journaled match
//	blockfall config <path>      - Write the effective configuration
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set journal path (default: ~/.blockfall/matches.db)
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Append logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	"github.com/vovakirdan/blockfall/internal/games/blocks"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - a falling-block puzzle in your terminal",
	Long: `Blockfall is a falling-block puzzle game for the terminal.

Pieces fall into a well; complete rows to clear them. Every match is
journaled with its seed and input log so it can be replayed exactly.

Available commands:
  list     - Show all game modes
  play     - Play a match
  serve    - Start SSH server for remote play
  matches  - Browse the match journal
  replay   - Re-simulate a journaled match
  config   - Write the effective configuration to a file

Examples:
  blockfall play
  blockfall play blocks_bag --difficulty hard
  blockfall serve --ssh :2222
  blockfall matches --plain
  blockfall replay 12`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/matches.db", "Path to match journal database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger from the global flags. Logs go to
// --log-file when set and to out otherwise. The returned closer releases
// the log file.
func newLogger(out io.Writer, prefix string) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	closer := func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		closer = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	blocks.SetLogger(logger)
	return logger, closer, nil
}
