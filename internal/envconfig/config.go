package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	automaton "github.com/geange/fa"
)

var (
	// Set via FA_DEBUG in the environment
	Debug bool
	// Set via FA_TRACE in the environment
	Trace bool
	// Set via FA_WORK_LIMIT in the environment
	WorkLimit int
	// Set via FA_FORMAT in the environment
	Format string
)

// Output formats accepted by FA_FORMAT and --format.
const (
	FormatText = "text"
	FormatDOT  = "dot"
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"FA_DEBUG":      {"FA_DEBUG", Debug, "Show additional debug information (e.g. FA_DEBUG=1)"},
		"FA_TRACE":      {"FA_TRACE", Trace, "Log every state the algorithms discover"},
		"FA_WORK_LIMIT": {"FA_WORK_LIMIT", WorkLimit, fmt.Sprintf("Determinization work limit, 0 for none (default %d)", automaton.DefaultDeterminizeWorkLimit)},
		"FA_FORMAT":     {"FA_FORMAT", Format, "Output format, text or dot (default \"text\")"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	LoadConfig()
}

// LoadConfig resets every setting to its default and applies the environment on top.
// Invalid values are logged and ignored.
func LoadConfig() {
	Debug = false
	Trace = false
	WorkLimit = automaton.DefaultDeterminizeWorkLimit
	Format = FormatText

	if debug := clean("FA_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			Debug = d
		} else {
			Debug = true
		}
	}

	if trace := clean("FA_TRACE"); trace != "" {
		d, err := strconv.ParseBool(trace)
		if err == nil {
			Trace = d
		} else {
			Trace = true
		}
	}

	if limit := clean("FA_WORK_LIMIT"); limit != "" {
		val, err := strconv.Atoi(limit)
		if err != nil || val < 0 {
			slog.Error("invalid setting must be zero or greater", "FA_WORK_LIMIT", limit, "error", err)
		} else {
			WorkLimit = val
		}
	}

	if format := clean("FA_FORMAT"); format != "" {
		if err := ValidateFormat(format); err != nil {
			slog.Error("invalid setting, ignoring", "FA_FORMAT", format, "error", err)
		} else {
			Format = format
		}
	}
}

// ValidateFormat returns an error unless format is FormatText or FormatDOT.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatDOT:
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected %q or %q", format, FormatText, FormatDOT)
	}
}
