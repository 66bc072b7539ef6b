package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	spelledDateRe = regexp.MustCompile(`(?:Ngày|ngày)\s+([0-9]{1,2})\s+(?:tháng|Tháng|[/.-])\s+([0-9]{1,2})\s+(?:năm|Năm|[/.-])\s+([0-9]{4})`)
	bareDateRe    = regexp.MustCompile(`[0-9]{2}/[0-9]{2}/[0-9]{4}`)
)

// extractDate finds the document date as DD/MM/YYYY. The spelled-out form
// "Ngày 5 tháng 3 năm 2024" wins over the first bare dd/mm/yyyy in the text.
func extractDate(text string) string {
	if m := spelledDateRe.FindStringSubmatch(text); m != nil {
		day, err1 := strconv.Atoi(m[1])
		month, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return fmt.Sprintf("%02d/%02d/%s", day, month, m[3])
		}
		return ""
	}
	return bareDateRe.FindString(text)
}

// inspectText returns the warning for text that cannot yield a useful record.
func inspectText(text string) string {
	switch {
	case strings.TrimSpace(text) == "":
		return WarningEmptyText
	case !hasDigit(text):
		return WarningNoDigits
	default:
		return ""
	}
}
