package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagPrune int
	flagStats bool
)

var matchesCmd = &cobra.Command{
	Use:   "matches [mode]",
	Short: "Browse the match journal",
	Long: `Browse journaled matches. On a terminal this opens an interactive
table; press Enter on a match to verify it by replaying it.

Examples:
  blockfall matches
  blockfall matches blocks_bag --plain
  blockfall matches --stats
  blockfall matches --prune 500`,
	Args: cobra.MaximumNArgs(1),
	Run:  runMatches,
}

func init() {
	matchesCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain table instead of the interactive browser")
	matchesCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of matches to print with --plain")
	matchesCmd.Flags().IntVar(&flagPrune, "prune", 0, "Delete all but the N most recent matches")
	matchesCmd.Flags().BoolVar(&flagStats, "stats", false, "Print per-mode statistics")
}

func runMatches(cmd *cobra.Command, args []string) {
	mode := ""
	if len(args) > 0 {
		mode = args[0]
		if !registry.Exists(mode) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagPrune > 0:
		n, err := store.PruneMatches(flagPrune)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error pruning journal: %v\n", err)
			return
		}
		fmt.Printf("Deleted %d matches.\n", n)

	case flagStats:
		printStats(store)

	case flagPlain || !term.IsTerminal(int(os.Stdout.Fd())):
		printMatches(store, mode)

	default:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		selected, err := tui.RunMatches(store, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		if selected != nil {
			verifyMatch(*selected)
		}
	}
}

func printMatches(store *storage.Store, mode string) {
	matches, err := store.RecentMatches(mode, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		return
	}

	if len(matches) == 0 {
		fmt.Println("No matches journaled yet.")
		fmt.Println()
		fmt.Println("Play 'blockfall play' to record one!")
		return
	}

	// Print header
	fmt.Printf("  %-6s  %-10s  %-8s  %-6s  %-3s  %-6s  %-6s  %s\n",
		"ID", "Mode", "Score", "Lines", "Lv", "Pieces", "Result", "Date")
	fmt.Printf("  %-6s  %-10s  %-8s  %-6s  %-3s  %-6s  %-6s  %s\n",
		"--", "----", "-----", "-----", "--", "------", "------", "----")

	for _, m := range matches {
		result := "quit"
		if m.Finished {
			result = "over"
		}
		fmt.Printf("  %-6d  %-10s  %-8d  %-6d  %-3d  %-6d  %-6s  %s\n",
			m.ID, m.Mode, m.Score, m.Lines, m.Level, m.Pieces, result,
			m.PlayedAt.Local().Format("2006-01-02 15:04"))
	}
}

func printStats(store *storage.Store) {
	stats, err := store.GetModeStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving statistics: %v\n", err)
		return
	}
	if len(stats) == 0 {
		fmt.Println("No matches journaled yet.")
		return
	}

	modes := make([]string, 0, len(stats))
	for mode := range stats {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	fmt.Printf("  %-10s  %-7s  %-10s  %-9s  %s\n", "Mode", "Matches", "Lines", "Best", "Last played")
	fmt.Printf("  %-10s  %-7s  %-10s  %-9s  %s\n", "----", "-------", "-----", "----", "-----------")
	for _, mode := range modes {
		s := stats[mode]
		fmt.Printf("  %-10s  %-7d  %-10d  %-9d  %s\n",
			s.Mode, s.Matches, s.TotalLines, s.MaxLines, s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}
