package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"revisio/internal/adapters/console"
	"revisio/internal/adapters/filesystem"
	"revisio/internal/adapters/sqlite"
	"revisio/internal/application/commands"
	"revisio/internal/config"
	"revisio/internal/ports"
)

var updateOnly bool

var rootCmd = &cobra.Command{
	Use:   "revisio",
	Short: "Spaced-repetition review planner for a folder of notes",
	Long: `revisio scans a folder of topic subfolders holding markdown notes,
merges the progress ledger kept in index.md, picks today's notes to review
(less mastered notes come up more often) and rewrites the ledger.

Run without flags to generate today's plan. Use -u to only sync the file
list into the ledger without scheduling reviews.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := cfg.Logger("revisio")

		fs := afero.NewOsFs()
		deps := commands.Deps{
			Scanner: filesystem.NewScanner(fs, cfg.Root, cfg.Format.Extension),
			Ledger:  filesystem.NewLedgerStore(fs, cfg.LedgerPath()),
			Clock:   ports.SystemClock{},
			Rand:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
			Format:  cfg.Format,
			Logger:  logger,
		}
		if journal := openJournal(cfg, logger); journal != nil {
			defer journal.Close()
			deps.Journal = journal
		}

		printer := console.NewPrinter(cmd.OutOrStdout())
		printer.Banner()

		res, err := commands.NewPlanCommand(deps, updateOnly).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printer.Result(res)
		return nil
	},
}

// openJournal opens the review journal, or returns nil when it is disabled
// or unavailable. Runs never fail because of the journal.
func openJournal(cfg *config.Config, logger *log.Logger) *sqlite.Journal {
	path, ok := cfg.JournalPath()
	if !ok {
		return nil
	}
	journal, err := sqlite.Open(path)
	if err != nil {
		logger.Warn("review journal unavailable", "path", path, "err", err)
		return nil
	}
	return journal
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&updateOnly, "update-only", "u", false, "sync the file list into the ledger without planning reviews")
}
