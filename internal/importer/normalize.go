package importer

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
	"github.com/xuri/excelize/v2"

	"cordoba/internal/domain"
)

const (
	nationalIDDigits = 11
	phoneRegion      = "BR"
)

var currencySymbols = strings.NewReplacer("R$", "", "r$", "", "US$", "", "$", "", "€", "", "BRL", "")

// NormalizeText trims a cell and maps spreadsheet null markers to "".
func NormalizeText(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "nan", "nat", "none", "null", "#n/a":
		return ""
	}
	return s
}

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeNationalID formats an 11-digit CPF as XXX.XXX.XXX-XX. Any other
// input is returned trimmed and is rejected by validation.
func NormalizeNationalID(raw string) string {
	s := NormalizeText(raw)
	d := DigitsOnly(s)
	if len(d) != nationalIDDigits {
		return s
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// IsValidNationalID reports whether id carries exactly 11 digits.
func IsValidNationalID(id string) bool {
	return len(DigitsOnly(id)) == nationalIDDigits
}

// MaskNationalID hides all but the last five digits: ***.***.*789-00.
func MaskNationalID(id string) string {
	d := DigitsOnly(id)
	if len(d) < 5 {
		return "***.***.***-**"
	}
	return "***.***.*" + d[len(d)-5:len(d)-2] + "-" + d[len(d)-2:]
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ParseAmount reads a monetary value. Currency symbols and thousands
// separators are removed and a decimal comma becomes a point. Anything that
// still does not parse yields zero.
func ParseAmount(raw string, src domain.SourceFormat) decimal.Decimal {
	s := NormalizeText(raw)
	if s == "" {
		return decimal.Zero
	}
	s = currencySymbols.Replace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || (src == domain.SourceCSV && isThousandsGroup(s, lastDot)) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// isThousandsGroup reports whether the only dot in s is followed by exactly
// three digits and preceded by a non-zero integer part, as in the pt-BR text
// "1.500". "0.500" stays a fraction.
func isThousandsGroup(s string, dot int) bool {
	tail := s[dot+1:]
	if len(tail) != 3 || DigitsOnly(tail) != tail {
		return false
	}
	head := strings.TrimLeft(DigitsOnly(s[:dot]), "0")
	return head != ""
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2006/1/2",
}

// ParseDate reads a date cell. Numeric cells from xlsx files are Excel serial
// dates. Text is tried against ISO layouts first, then day-first layouts.
func ParseDate(raw string, src domain.SourceFormat) (time.Time, bool) {
	s := NormalizeText(raw)
	if s == "" {
		return time.Time{}, false
	}
	if src == domain.SourceXLSX {
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			if serial <= 0 || serial > 2958465 {
				return time.Time{}, false
			}
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				return time.Time{}, false
			}
			return dateOnly(t), true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeState upper-cases a UF and keeps its first two letters.
func NormalizeState(raw string) string {
	s := strings.ToUpper(NormalizeText(raw))
	return Truncate(s, 2)
}

// NormalizePhone formats a Brazilian phone number as E.164. Numbers that do
// not parse are kept as typed.
func NormalizePhone(raw string) string {
	s := NormalizeText(raw)
	if s == "" {
		return ""
	}
	num, err := libphonenumber.Parse(s, phoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return s
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

// NormalizeEmail lower-cases and trims an e-mail address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(NormalizeText(raw))
}
