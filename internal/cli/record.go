package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/eventlog/record"
)

var (
	recordCategory string
	recordPID      int
	recordMessage  string
	recordDetails  []string
	recordHistory  bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append a record to the event or history log",
	Long: `Append one record to the application event log, or to the history log
with --history.

The category is a label such as "Dialog Init" or a number (0x0201).
Details are key=value pairs keyed by detail name, for example
--detail ResourceID=1001 --detail CheckState=Checked.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	flags := recordCmd.Flags()
	flags.StringVar(&recordCategory, "category", "Application Event", "log category label or number")
	flags.IntVar(&recordPID, "pid", 0, "process id (defaults to the current process)")
	flags.StringVarP(&recordMessage, "message", "m", "", "record description")
	flags.StringArrayVar(&recordDetails, "detail", nil, "detail key=value (repeatable)")
	flags.BoolVar(&recordHistory, "history", false, "write to the history log")
}

func runRecord(cmd *cobra.Command, args []string) error {
	dict := record.DefaultDictionary()

	category, err := parseCategory(dict, recordCategory)
	if err != nil {
		return err
	}

	pid := recordPID
	if pid == 0 {
		pid = os.Getpid()
	}

	rec := record.New(pid, category, recordMessage)
	for _, arg := range recordDetails {
		cell, err := parseDetail(dict, arg)
		if err != nil {
			return err
		}
		rec.AddDetail(cell)
	}

	logger, err := openLogger()
	if err != nil {
		return err
	}

	target := logger.Events()
	output := logger.OutputEvent
	if recordHistory {
		target = logger.History()
		output = logger.OutputHistory
	}

	if err := output(rec); err != nil {
		logger.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := logger.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s in %s\n", dict.Category(category), target.FilePath(rec.Time))
	return nil
}

// parseCategory resolves a category label or a decimal/hex number
func parseCategory(dict *record.Dictionary, s string) (uint16, error) {
	if c, ok := dict.LookupCategory(s); ok {
		return c, nil
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown category: %s", s)
	}
	return uint16(n), nil
}

// parseDetail builds a cell from "Key=value". Values of keys with a label
// table accept the label or its number, other integers become Int cells
// and everything else a String cell.
func parseDetail(dict *record.Dictionary, arg string) (record.Cell, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return record.Cell{}, fmt.Errorf("invalid detail %q, expected key=value", arg)
	}

	category, ok := dict.LookupDetail(strings.TrimSpace(key))
	if !ok {
		return record.Cell{}, fmt.Errorf("unknown detail key: %s", key)
	}
	value = strings.TrimSpace(value)

	if table, ok := dict.Values[category]; ok {
		for v, label := range table {
			if label == value {
				return record.DictCell(category, v), nil
			}
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return record.DictCell(category, n), nil
		}
		return record.Cell{}, fmt.Errorf("invalid value %q for %s", value, key)
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return record.IntCell(category, n), nil
	}
	return record.StringCell(category, value), nil
}
