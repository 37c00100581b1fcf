package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/eventlog"
	"github.com/lixenwraith/eventlog/document"
)

var (
	viewFormat string
	viewFollow bool
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Print the records of a log file",
	Long: `Read an event or history log file and print its records as YAML
(the on-disk form) or in bracketed form with --format bracketed.

A bare file name is looked up in the log directory when it does not
exist in the working directory. With --follow, records appended to the
file are printed as they arrive until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	flags := viewCmd.Flags()
	flags.StringVarP(&viewFormat, "format", "f", "yaml", "output format: yaml or bracketed")
	flags.BoolVar(&viewFollow, "follow", false, "print records appended to the file")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := resolveLogFile(cfg.Directory, args[0])
	if viewFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return followRecords(ctx, path, cfg.Encoding, cmd.OutOrStdout(), viewFormat)
	}

	docs, err := eventlog.ReadRecords(path, cfg.Encoding)
	if err != nil {
		return err
	}
	return printRecords(cmd.OutOrStdout(), docs, viewFormat)
}

// followRecords prints the records of path, then those appended later until ctx ends.
// A file that loses records (replaced or truncated) is printed again from the start.
func followRecords(ctx context.Context, path, encodingName string, w io.Writer, format string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched so a file created later is picked up
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	printed := 0
	update := func() error {
		docs, err := eventlog.ReadRecords(path, encodingName)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if len(docs) < printed {
			printed = 0
		}
		if len(docs) == printed {
			return nil
		}
		if printed > 0 && format == "yaml" {
			fmt.Fprintln(w)
		}
		if err := printRecords(w, docs[printed:], format); err != nil {
			return err
		}
		printed = len(docs)
		return nil
	}

	if err := update(); err != nil {
		return err
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// A record caught mid-write fails to parse, the next event retries
			_ = update()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// resolveLogFile falls back to dir for bare names missing from the working directory
func resolveLogFile(dir, name string) string {
	if filepath.Base(name) != name {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(dir, name)
}

func printRecords(w io.Writer, docs []*document.Document, format string) error {
	switch format {
	case "yaml":
		for i, doc := range docs {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, doc.RenderYAML())
		}
	case "bracketed":
		opts := document.DefaultBracketOptions()
		opts.Separator = true
		for _, doc := range docs {
			fmt.Fprint(w, doc.RenderBracketed(opts))
		}
	default:
		return fmt.Errorf("unknown format: %s (use yaml or bracketed)", format)
	}
	return nil
}
