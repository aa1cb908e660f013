package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wirehttp/wirehttp/packages/bench"
	"github.com/wirehttp/wirehttp/packages/client"
	"github.com/wirehttp/wirehttp/packages/config"
)

var (
	benchRequestsFlag    int
	benchRateFlag        float64
	benchConcurrencyFlag int
	benchMethodFlag      string
)

var benchCmd = &cobra.Command{
	Use:   "bench <url>",
	Short: "Send a request repeatedly and report latency percentiles",
	Long: `Send the same request many times and summarize latency.

Examples:
  wirehttp bench https://api.example.com/health -n 500 -c 20
  wirehttp bench https://api.example.com/users -X POST -j '{"name":"ada"}' -r 50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(benchMethodFlag, args[0])
		if err != nil {
			return err
		}

		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		cl := client.New(clientOptions(cfg)...)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		summary, err := bench.Run(ctx, cl, req, &bench.Config{
			Requests:    benchRequestsFlag,
			Rate:        benchRateFlag,
			Concurrency: benchConcurrencyFlag,
		})
		if err != nil && err != context.Canceled {
			return err
		}
		printSummary(cmd, summary)
		return nil
	},
}

func init() {
	addRequestFlags(benchCmd)
	benchCmd.Flags().IntVarP(&benchRequestsFlag, "requests", "n", 100, "Total number of requests")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 0, "Requests per second (0 = unthrottled)")
	benchCmd.Flags().IntVarP(&benchConcurrencyFlag, "concurrency", "c", 10, "Max in-flight requests")
	benchCmd.Flags().StringVarP(&benchMethodFlag, "method", "X", "GET", "HTTP method to benchmark")
}

func printSummary(cmd *cobra.Command, s *bench.Summary) {
	if noColorFlag {
		color.NoColor = true
	}
	bold := color.New(color.Bold).SprintFunc()
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "\n%s\n", bold("Summary"))
	fmt.Fprintf(w, "  requests: %d  errors: %d  elapsed: %s  rps: %.1f\n",
		s.Total, s.Errors, s.Elapsed.Round(1e6), s.RPS)
	fmt.Fprintf(w, "  latency:  p50=%s  p95=%s  p99=%s  max=%s\n",
		s.P50, s.P95, s.P99, s.Max)

	statuses := make([]int, 0, len(s.Statuses))
	for code := range s.Statuses {
		statuses = append(statuses, code)
	}
	sort.Ints(statuses)
	for _, code := range statuses {
		fmt.Fprintf(w, "  %s: %d\n", statusColor(code)(fmt.Sprintf("HTTP %d", code)), s.Statuses[code])
	}
}
