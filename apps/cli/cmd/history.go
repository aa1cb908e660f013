package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wirehttp/wirehttp/packages/config"
	"github.com/wirehttp/wirehttp/packages/history"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently recorded requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		path := firstNonEmpty(historyFlag, cfg.History)
		if path == "" {
			return fmt.Errorf("no history database configured (use --history or the history key in wirehttp.yaml)")
		}

		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(historyLimitFlag)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %s %-7s %s  %dms\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				statusColor(e.StatusCode)(fmt.Sprintf("%d", e.StatusCode)),
				e.Method, e.URL, e.DurationMs)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "l", 20, "Maximum entries to list")
	historyCmd.Flags().StringVar(&historyFlag, "history", getEnvString("WIREHTTP_HISTORY", ""), "SQLite history database path (env: WIREHTTP_HISTORY)")
	historyCmd.Flags().StringVar(&configFlag, "config", getEnvString("WIREHTTP_CONFIG", ""), "Path to config file (env: WIREHTTP_CONFIG)")
}
