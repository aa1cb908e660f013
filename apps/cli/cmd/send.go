package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/wirehttp/wirehttp/packages/reqfile"
)

// WatchDebounceDelay is the debounce delay for file watch events.
const WatchDebounceDelay = 300 * time.Millisecond

var watchFlag bool

var sendCmd = &cobra.Command{
	Use:   "send <request.yaml>",
	Short: "Send a request described by a YAML request file",
	Long: `Send a request from a declarative YAML file.

Example file:
  method: POST
  url: https://api.example.com/users
  headers:
    Authorization: Bearer ${TOKEN}
  json:
    name: ada

With --watch the file is re-sent every time it changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !watchFlag {
			return sendFile(cmd, path)
		}
		return watchAndSend(cmd, path)
	},
}

func init() {
	addRequestFlags(sendCmd)
	sendCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-send whenever the request file changes")
}

func sendFile(cmd *cobra.Command, path string) error {
	req, err := reqfile.Load(path)
	if err != nil {
		return err
	}
	return executeRequest(cmd, req)
}

// watchAndSend sends once, then re-sends on every (debounced) write to
// the request file until interrupted.
func watchAndSend(cmd *cobra.Command, path string) error {
	if err := sendFile(cmd, path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops a
	// watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", path)

	var timer *time.Timer
	resend := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case resend <- struct{}{}:
				default:
				}
			})
		case <-resend:
			if err := sendFile(cmd, path); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", watchErr)
		}
	}
}
