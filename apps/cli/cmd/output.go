package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/wirehttp/wirehttp/packages/client"
)

// printResponse writes the response to w. The body always goes out; the
// status line and headers are included on request, status colored by
// class.
func printResponse(w io.Writer, resp *client.Response, include, noColor bool) {
	if noColor {
		color.NoColor = true
	}

	if include {
		fmt.Fprintf(w, "%s\n", statusColor(resp.StatusCode)(fmt.Sprintf("HTTP %d", resp.StatusCode)))
		cyan := color.New(color.FgCyan).SprintFunc()
		for _, k := range resp.Headers.Keys() {
			for _, v := range resp.Headers.Values(k) {
				fmt.Fprintf(w, "%s: %s\n", cyan(k), v)
			}
		}
		fmt.Fprintln(w)
	}
	if len(resp.Content) > 0 {
		fmt.Fprintf(w, "%s", resp.Content)
		if resp.Content[len(resp.Content)-1] != '\n' {
			fmt.Fprintln(w)
		}
	}
}

func statusColor(statusCode int) func(a ...interface{}) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	case statusCode >= 300 && statusCode < 400:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}
