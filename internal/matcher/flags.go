package matcher

import (
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/maruel/tableview/internal/view"
)

// Flags selects how role values are matched. The low bits hold one match kind,
// the high bits are modifiers.
type Flags uint

// Match kinds.
const (
	MatchExactly     Flags = 0
	MatchContains    Flags = 1
	MatchStartsWith  Flags = 2
	MatchEndsWith    Flags = 3
	MatchRegexp      Flags = 4
	MatchWildcard    Flags = 5
	MatchFixedString Flags = 8
)

// Modifiers.
const (
	MatchCaseSensitive Flags = 16
	MatchWrap          Flags = 32
)

const kindMask Flags = 0x0f

// Kind returns the match kind without modifiers.
func (f Flags) Kind() Flags {
	return f & kindMask
}

// newMatchFunc returns the predicate applied to each role value.
//
// MatchExactly compares values with view.Equal. Every other kind compares the
// text of the values, ignoring case unless MatchCaseSensitive is set.
func newMatchFunc(value any, flags Flags) func(any) bool {
	kind := flags.Kind()
	if kind == MatchExactly {
		return func(v any) bool { return view.Equal(v, value) }
	}
	sensitive := flags&MatchCaseSensitive != 0
	fold := func(s string) string {
		if sensitive {
			return s
		}
		return strings.ToLower(s)
	}
	want := fold(view.ToString(value))
	switch kind {
	case MatchContains:
		return func(v any) bool { return strings.Contains(fold(view.ToString(v)), want) }
	case MatchStartsWith:
		return func(v any) bool { return strings.HasPrefix(fold(view.ToString(v)), want) }
	case MatchEndsWith:
		return func(v any) bool { return strings.HasSuffix(fold(view.ToString(v)), want) }
	case MatchRegexp:
		expr := view.ToString(value)
		if !sensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			slog.Warn("Invalid match expression", "expr", view.ToString(value), "err", err)
			return func(any) bool { return false }
		}
		return func(v any) bool { return re.MatchString(view.ToString(v)) }
	case MatchWildcard:
		return func(v any) bool {
			ok, err := path.Match(want, fold(view.ToString(v)))
			return err == nil && ok
		}
	default:
		return func(v any) bool { return fold(view.ToString(v)) == want }
	}
}
