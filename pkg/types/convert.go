package types

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	longPrefix   = regexp.MustCompile(`^-?\d+`)
	doublePrefix = regexp.MustCompile(`^-?\d+(\.\d+)?([eE]-?\d+)?`)
	zeroText     = regexp.MustCompile(`^0(\.0+)?$`)
)

// IsIntegerNumber reports whether v is an integer.
func IsIntegerNumber(v Value) bool {
	return v.typ == TypeInt
}

// IsFloatingNumber reports whether v is a number. Integers count as
// floating numbers.
func IsFloatingNumber(v Value) bool {
	return v.typ == TypeInt || v.typ == TypeDouble
}

// IsString reports whether v is a string.
func IsString(v Value) bool {
	return v.typ == TypeString
}

// IsBool reports whether v is a boolean.
func IsBool(v Value) bool {
	return v.typ == TypeBool
}

// ToBool converts a value to a boolean.
//
// null is false. A number is false if -0.5 < x < 0.5. A string is parsed as
// a number and the numeric rule applied; otherwise "0", "0.0", "0.00"... and
// the empty string are false and any other string is true.
func ToBool(v Value) bool {
	switch v.typ {
	case TypeNull:
		return false
	case TypeBool:
		return v.boolVal
	case TypeInt, TypeDouble:
		n, _ := v.AsNumber()
		return !nearZero(n)
	}
	str := v.String()
	if n, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
		return !nearZero(n)
	}
	if zeroText.MatchString(str) {
		return false
	}
	return str != ""
}

func nearZero(n float64) bool {
	return -0.5 < n && n < 0.5
}

// ToInt converts a value to an int64.
//
// null is 0, doubles are truncated toward zero, booleans are 1 or 0. Strings
// are scanned for a leading optionally signed run of digits; a string that
// doesn't start with one is 0.
func ToInt(v Value) int64 {
	switch v.typ {
	case TypeNull:
		return 0
	case TypeInt:
		return v.intVal
	case TypeDouble:
		return truncate(v.doubleVal)
	case TypeBool:
		if v.boolVal {
			return 1
		}
		return 0
	}
	m := longPrefix.FindString(v.String())
	if m == "" {
		return 0
	}
	// ParseInt saturates on overflow.
	n, _ := strconv.ParseInt(m, 10, 64)
	return n
}

// truncate converts f to int64, saturating at the int64 range and mapping
// NaN to 0.
func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// ToDouble converts a value to a float64.
//
// null is 0, booleans are 1 or 0. Strings are scanned for a leading signed
// decimal number with optional fraction and exponent; a string that doesn't
// start with one is 0.
func ToDouble(v Value) float64 {
	switch v.typ {
	case TypeNull:
		return 0
	case TypeInt:
		return float64(v.intVal)
	case TypeDouble:
		return v.doubleVal
	case TypeBool:
		if v.boolVal {
			return 1
		}
		return 0
	}
	m := doublePrefix.FindString(v.String())
	if m == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

// ToString converts a value to its text form. null is the empty string.
func ToString(v Value) string {
	if v.typ == TypeNull {
		return ""
	}
	return v.String()
}

// Localizer formats values for a locale: numbers get the locale's grouping
// and decimal separator and at most three fraction digits.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer creates a localizer for the given language.
func NewLocalizer(tag language.Tag) *Localizer {
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

// Tag returns the localizer's language.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// String converts a value to locale-formatted text. Non-numeric values
// format as ToString does.
func (l *Localizer) String(v Value) string {
	switch v.typ {
	case TypeInt:
		return l.printer.Sprintf("%v", number.Decimal(v.intVal))
	case TypeDouble:
		if math.IsNaN(v.doubleVal) || math.IsInf(v.doubleVal, 0) {
			return v.String()
		}
		return l.printer.Sprintf("%v", number.Decimal(v.doubleVal, number.MaxFractionDigits(3)))
	}
	return ToString(v)
}
