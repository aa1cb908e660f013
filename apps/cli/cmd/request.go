package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wirehttp/wirehttp/packages/client"
	"github.com/wirehttp/wirehttp/packages/config"
	"github.com/wirehttp/wirehttp/packages/history"
	"github.com/wirehttp/wirehttp/packages/validate"
)

var (
	headersFlag     []string
	jsonFlag        string
	dataFlag        string
	noRedirectsFlag bool
	timeoutFlag     string
	insecureFlag    bool
	requestIDsFlag  bool
	schemaFlag      string
	historyFlag     string
	configFlag      string
	includeFlag     bool
	noColorFlag     bool
)

// newVerbCmd builds one verb command (get, post, ...). All verbs share
// the same flags and delegate to the same execution path.
func newVerbCmd(method string) *cobra.Command {
	upper := strings.ToUpper(method)
	cmd := &cobra.Command{
		Use:   method + " <url>",
		Short: "Send a " + upper + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(upper, args[0])
			if err != nil {
				return err
			}
			return executeRequest(cmd, req)
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&headersFlag, "header", "H", nil, `Request header, "Key: Value" (repeatable)`)
	cmd.Flags().StringVarP(&jsonFlag, "json", "j", "", "JSON request body")
	cmd.Flags().StringVarP(&dataFlag, "data", "d", "", "Raw request body")
	cmd.Flags().BoolVar(&noRedirectsFlag, "no-redirects", false, "Do not follow redirects")
	cmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("WIREHTTP_TIMEOUT", ""), "Request timeout, e.g. 10s (env: WIREHTTP_TIMEOUT)")
	cmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVar(&requestIDsFlag, "request-ids", false, "Stamp an X-Request-ID header per request")
	cmd.Flags().StringVar(&schemaFlag, "schema", "", "Validate the response body against a JSON Schema file")
	cmd.Flags().StringVar(&historyFlag, "history", getEnvString("WIREHTTP_HISTORY", ""), "Record the request in a SQLite history database (env: WIREHTTP_HISTORY)")
	cmd.Flags().StringVar(&configFlag, "config", getEnvString("WIREHTTP_CONFIG", ""), "Path to config file (env: WIREHTTP_CONFIG)")
	cmd.Flags().BoolVarP(&includeFlag, "include", "i", false, "Print response status and headers")
	cmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("WIREHTTP_NO_COLOR", false), "Disable colored output (env: WIREHTTP_NO_COLOR)")
}

// buildRequest assembles a client.Request from the verb, URL argument and
// shared flags.
func buildRequest(method, url string) (*client.Request, error) {
	headers, err := parseHeaderFlags(headersFlag)
	if err != nil {
		return nil, err
	}
	req := &client.Request{Method: method, URL: url, Headers: headers}

	if jsonFlag != "" && dataFlag != "" {
		return nil, client.ErrAmbiguousBody
	}
	if jsonFlag != "" {
		var v any
		if err := json.Unmarshal([]byte(jsonFlag), &v); err != nil {
			return nil, fmt.Errorf("--json is not valid JSON: %w", err)
		}
		req.JSON = v
	}
	if dataFlag != "" {
		req.Body = []byte(dataFlag)
	}
	if noRedirectsFlag {
		req.AllowRedirects = config.BoolPtr(false)
	}
	return req, nil
}

// executeRequest runs one request with config-file defaults plus flag
// overrides, prints the response, and applies the optional schema and
// history side channels.
func executeRequest(cmd *cobra.Command, req *client.Request) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	cl := client.New(clientOptions(cfg)...)

	resp, err := cl.Do(req)
	if err != nil {
		return err
	}

	if path := firstNonEmpty(historyFlag, cfg.History); path != "" {
		if err := recordHistory(path, req, resp); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	printResponse(cmd.OutOrStdout(), resp, includeFlag, noColorFlag)

	if schemaFlag != "" {
		violations, err := validate.JSONFile(schemaFlag, resp.Content)
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			for _, v := range violations {
				fmt.Fprintf(os.Stderr, "schema: %s\n", v)
			}
			return fmt.Errorf("response violates schema (%d problems)", len(violations))
		}
	}
	return nil
}

func clientOptions(cfg *config.Config) []client.Option {
	opts := cfg.ClientOptions()
	if noRedirectsFlag {
		opts = append(opts, client.WithFollowRedirects(false))
	}
	if timeoutFlag != "" {
		if d, err := time.ParseDuration(timeoutFlag); err == nil {
			opts = append(opts, client.WithTimeout(d))
		}
	}
	if insecureFlag {
		opts = append(opts, client.WithValidateSSL(false))
	}
	if requestIDsFlag {
		opts = append(opts, client.WithRequestIDs())
	}
	return opts
}

func recordHistory(path string, req *client.Request, resp *client.Response) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(req.Method, req.URL, resp.StatusCode, resp.Duration)
}

func parseHeaderFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(flags))
	for _, f := range flags {
		k, v, ok := strings.Cut(f, ":")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Key: Value\"", f)
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}
