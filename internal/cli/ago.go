package cli

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spetersoncode/buzz/internal/timeago"
)

var (
	agoUnit        string
	agoClampFuture bool
)

func init() {
	agoCmd.Flags().StringVar(&agoUnit, "unit", "", "How to read numeric timestamps: auto, seconds or milliseconds")
	agoCmd.Flags().BoolVar(&agoClampFuture, "clamp-future", false, "Show future timestamps as \"0 seconds ago\"")
	rootCmd.AddCommand(agoCmd)
}

var agoCmd = &cobra.Command{
	Use:   "ago <timestamp>...",
	Short: "Format timestamps as \"N units ago\"",
	Long: `Format each timestamp relative to now.

A timestamp is an ISO 8601 date or date-time, a locale date such as
"6/15/2024, 3:04:05 PM", or a Unix epoch number. Ten-digit numbers are read
as seconds and all other numbers as milliseconds unless --unit says otherwise.
Negative epoch numbers must follow "--" so they are not read as flags.

Examples:
  buzz ago 2024-06-15T11:55:00Z
  buzz ago 1718452500
  buzz ago -- -1234567890
  buzz ago --now 2024-06-15T12:00:00Z 1718452500000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAgo,
}

type agoResult struct {
	Input  string `json:"input"`
	Millis int64  `json:"millis"`
	Label  string `json:"label"`
}

func runAgo(cmd *cobra.Command, args []string) error {
	f := newFormatter()
	if cmd.Flags().Changed("unit") {
		unit, err := timeago.ParseEpochUnit(agoUnit)
		if err != nil {
			return err
		}
		f.EpochUnit = unit
	}
	if agoClampFuture {
		f.ClampFuture = true
	}

	results := make([]agoResult, 0, len(args))
	for _, arg := range args {
		input := timestampArg(arg)
		ms, err := f.Millis(input)
		if err != nil {
			return err
		}
		label, err := f.Format(input)
		if err != nil {
			return err
		}
		logger.Debug("formatted timestamp",
			zap.String("input", arg),
			zap.Int64("millis", ms),
			zap.String("label", label))
		results = append(results, agoResult{Input: arg, Millis: ms, Label: label})
	}

	if IsJSON() {
		return outputJSON(results)
	}

	for _, r := range results {
		if len(results) > 1 {
			OutputLine("%s  %s", dim(r.Input), r.Label)
			continue
		}
		OutputLine("%s", r.Label)
	}
	return nil
}

// timestampArg turns a numeric-looking argument into a number so it is read
// as an epoch value. Everything else stays a date string.
func timestampArg(arg string) any {
	s := strings.TrimSpace(arg)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if !looksNumeric(s) {
		return arg
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(x, 0) && !math.IsNaN(x) {
		return x
	}
	return arg
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == 'e' || r == 'E':
		case (r == '-' || r == '+') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		default:
			return false
		}
	}
	return digits > 0
}
