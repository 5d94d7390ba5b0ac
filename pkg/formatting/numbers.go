package formatting

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var counts = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators (e.g. 12,345).
func FormatCount(n int64) string {
	return counts.Sprintf("%d", n)
}

// FormatPercent renders v with two decimal places and a percent sign.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
