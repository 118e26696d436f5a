package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"revisio/internal/adapters/console"
	"revisio/internal/application/commands"
	"revisio/internal/config"
	"revisio/internal/domain"
	"revisio/internal/ports"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [folder/name]",
	Short: "Show past reviews from the review journal",
	Long: `Show reviews recorded in the review journal, newest first.

The ledger keeps only the last three review dates of a note; the journal
keeps every review.

Examples:
  revisio history
  revisio history graphs/dijkstra --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := cfg.Logger("revisio")

		var ref domain.ItemRef
		if len(args) == 1 {
			ext := cfg.Format.Extension
			if ref, err = domain.ParseLink(strings.TrimSuffix(args[0], ext)+ext, ext); err != nil {
				return err
			}
		}

		var journal ports.ReviewJournal
		if j := openJournal(cfg, logger); j != nil {
			defer j.Close()
			journal = j
		}

		res, err := commands.NewHistoryCommand(journal, ref, historyLimit).Execute(cmd.Context())
		if err != nil {
			return err
		}

		console.NewPrinter(cmd.OutOrStdout()).History(res)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of reviews to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
