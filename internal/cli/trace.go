package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/eventlog"
)

var traceCmd = &cobra.Command{
	Use:   "trace <error|debug|info> <message...>",
	Short: "Write a line to a diagnostic channel",
	Long: `Write one timestamped line to the TraceError, TraceDebug or DebugInfo
channel. Disabled channels accept the line and write nothing.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTrace,
}

func runTrace(cmd *cobra.Command, args []string) error {
	logger, err := openLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	write, err := traceFunc(logger, args[0])
	if err != nil {
		return err
	}
	write(strings.Join(args[1:], " "))
	return nil
}

// traceFunc maps a channel argument to the logger's trace function
func traceFunc(logger *eventlog.Logger, channel string) (func(args ...any), error) {
	switch strings.ToLower(channel) {
	case "error", strings.ToLower(eventlog.ChannelTraceError):
		return logger.TraceError, nil
	case "debug", strings.ToLower(eventlog.ChannelTraceDebug):
		return logger.TraceDebug, nil
	case "info", strings.ToLower(eventlog.ChannelDebugInfo):
		return logger.DebugInfo, nil
	default:
		return nil, fmt.Errorf("unknown channel: %s (use error, debug or info)", channel)
	}
}
