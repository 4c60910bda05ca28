// Package dateutil compiles user-facing date formats (DD/MM/YYYY, presets)
// for the version banner.
//
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text in brackets is copied
// verbatim, so "[de]" never becomes a day token. Every other character is
// a literal. Month names are Portuguese unless a preset says otherwise.
package dateutil

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength bounds format strings read from config and flags.
const MaxDateFormatLength = 50

// DefaultDateFormat is the banner date format.
const DefaultDateFormat = "DD/MM/YYYY"

// Months holds full and abbreviated month names, January first.
type Months struct {
	Long  [12]string
	Short [12]string
}

// Portuguese month names, used for custom formats and the br presets.
var Portuguese = Months{
	Long: [12]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	},
	Short: [12]string{
		"jan", "fev", "mar", "abr", "mai", "jun",
		"jul", "ago", "set", "out", "nov", "dez",
	},
}

// English month names, used by the us and long presets.
var English = Months{
	Long: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	Short: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
}

type preset struct {
	format string
	months *Months
}

// presets are matched case-insensitively.
var presets = map[string]preset{
	"br":       {"DD/MM/YYYY", &Portuguese},
	"br-long":  {"D [de] MMMM [de] YYYY", &Portuguese},
	"iso":      {"YYYY-MM-DD", &Portuguese},
	"european": {"DD/MM/YYYY", &Portuguese},
	"us":       {"MM/DD/YYYY", &English},
	"long":     {"MMMM D, YYYY", &English},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type field int

const (
	literal field = iota
	year4
	year2
	monthLong
	monthShort
	month2
	month1
	day2
	day1
)

// tokens are tried longest first.
var tokens = []struct {
	text  string
	field field
}{
	{"YYYY", year4},
	{"MMMM", monthLong},
	{"MMM", monthShort},
	{"YY", year2},
	{"MM", month2},
	{"DD", day2},
	{"M", month1},
	{"D", day1},
}

type segment struct {
	field field
	text  string // only for literal
}

// Layout is a compiled date format. The zero value is not usable; use Compile.
type Layout struct {
	segments []segment
	months   *Months
}

// Compile parses a preset name or a token format.
func Compile(format string) (*Layout, error) {
	months := &Portuguese
	if p, ok := presets[strings.ToLower(format)]; ok {
		format, months = p.format, p.months
	}

	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	l := &Layout{months: months}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.segments = append(l.segments, segment{field: literal, text: lit.String()})
			lit.Reset()
		}
	}

	rest := format
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			lit.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		if f, n := matchToken(rest); n > 0 {
			flush()
			l.segments = append(l.segments, segment{field: f})
			rest = rest[n:]
			continue
		}
		lit.WriteByte(rest[0])
		rest = rest[1:]
	}
	flush()

	return l, nil
}

func matchToken(s string) (field, int) {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.text) {
			return t.field, len(t.text)
		}
	}
	return literal, 0
}

// Format renders t.
func (l *Layout) Format(t time.Time) string {
	var sb strings.Builder
	m := int(t.Month()) - 1
	for _, s := range l.segments {
		switch s.field {
		case literal:
			sb.WriteString(s.text)
		case year4:
			sb.WriteString(strconv.Itoa(t.Year()))
		case year2:
			fmt.Fprintf(&sb, "%02d", t.Year()%100)
		case monthLong:
			sb.WriteString(l.months.Long[m])
		case monthShort:
			sb.WriteString(l.months.Short[m])
		case month2:
			fmt.Fprintf(&sb, "%02d", m+1)
		case month1:
			sb.WriteString(strconv.Itoa(m + 1))
		case day2:
			fmt.Fprintf(&sb, "%02d", t.Day())
		case day1:
			sb.WriteString(strconv.Itoa(t.Day()))
		}
	}
	return sb.String()
}

// Format renders t with a preset name or token format.
func Format(t time.Time, format string) (string, error) {
	l, err := Compile(format)
	if err != nil {
		return "", err
	}
	return l.Format(t), nil
}

// Validate reports whether format compiles.
func Validate(format string) error {
	_, err := Compile(format)
	return err
}
