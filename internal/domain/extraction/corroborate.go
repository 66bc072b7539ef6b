package extraction

import (
	"strings"

	"github.com/FACorreiaa/docscan/pkg/money"
)

// FormatMatches reports whether value, rounded half to even and rendered with comma
// grouping ("10,000,000") or dot grouping ("10.000.000"), appears verbatim in line.
// A match shows the amount was printed as-is rather than assembled from adjacent digits.
func FormatMatches(value float64, line string) bool {
	if strings.Contains(line, money.GroupInteger(value, money.CommaGroup)) {
		return true
	}
	return strings.Contains(line, money.GroupInteger(value, money.DotGroup))
}
