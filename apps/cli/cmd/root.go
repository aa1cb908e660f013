package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "wirehttp",
	Short: "A direct HTTP client. One connection per call.",
	Long: `wirehttp issues HTTP requests over its own HTTP/1.1 framing:
one connection per logical call, explicit redirect policy, transparent
JSON, and gzip/deflate decoding. Defaults can be set in wirehttp.yaml.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	for _, method := range []string{"get", "post", "put", "patch", "delete", "head", "options"} {
		rootCmd.AddCommand(newVerbCmd(method))
	}
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
