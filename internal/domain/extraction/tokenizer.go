package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// Tokenizer limits.
const (
	// minRawRunLength is the shortest separator-free digit run taken as an amount.
	minRawRunLength = 4
	// maxLeadingZeroLength is the longest token allowed to start with '0'. Longer
	// zero-prefixed strings are phone numbers, account numbers or reference codes.
	maxLeadingZeroLength = 8
	// minGroupedValue is the exclusive lower bound for values from grouped tokens.
	minGroupedValue = 1000
	// Grouped values inside [yearBandLow, yearBandHigh] are read as calendar years.
	// Genuine amounts in that range are lost; downstream scoring cannot recover them.
	yearBandLow  = 1900
	yearBandHigh = 2030
)

var (
	rawDigitRunRe = regexp.MustCompile(`[0-9]+`)
	groupedNumRe  = regexp.MustCompile(`[0-9][0-9.,\s]*[0-9]`)
)

// ExtractCandidateAmounts returns every plausible monetary amount on a single line.
//
// Two passes run over the line. The first drops everything but digits and separators
// and takes each digit run of at least four digits, which catches amounts whose
// separators OCR lost. The second reads grouped numbers such as "10.000.000" or
// "1.234,56" and resolves the separators. Results are the first pass followed by the
// second; duplicates are kept. Malformed tokens are skipped and the function never fails.
func ExtractCandidateAmounts(line string) []float64 {
	var out []float64

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, line)

	for _, run := range rawDigitRunRe.FindAllString(cleaned, -1) {
		if isZeroPrefixedCode(run) {
			continue
		}
		if len(run) >= minRawRunLength {
			v, err := strconv.ParseFloat(run, 64)
			if err != nil {
				continue
			}
			out = append(out, v)
		}
	}

	for _, match := range groupedNumRe.FindAllString(line, -1) {
		s := strings.ReplaceAll(match, " ", "")
		if isZeroPrefixedCode(s) {
			continue
		}
		v, ok := parseGrouped(s)
		if !ok {
			continue
		}
		if v > minGroupedValue && (v < yearBandLow || v > yearBandHigh) {
			out = append(out, v)
		}
	}

	return out
}

// CandidatesFromLine wraps ExtractCandidateAmounts, tagging each value with its line.
func CandidatesFromLine(line string) []MoneyCandidate {
	values := ExtractCandidateAmounts(line)
	if len(values) == 0 {
		return nil
	}
	candidates := make([]MoneyCandidate, len(values))
	for i, v := range values {
		candidates[i] = MoneyCandidate{Value: v, Line: line}
	}
	return candidates
}

func isZeroPrefixedCode(s string) bool {
	return len(s) > maxLeadingZeroLength && strings.HasPrefix(s, "0")
}

// parseGrouped resolves '.' and ',' in a grouped number. A single separator style is
// always thousands grouping. When both appear, the one occurring last is the decimal
// point and the other is grouping.
func parseGrouped(s string) (float64, bool) {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && !hasDot:
		s = strings.ReplaceAll(s, ",", "")
	case hasDot && !hasComma:
		s = strings.ReplaceAll(s, ".", "")
	case hasComma && hasDot:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// largestCandidate returns the candidate with the largest value. candidates must not be
// empty.
func largestCandidate(candidates []MoneyCandidate) MoneyCandidate {
	m := candidates[0]
	for _, c := range candidates[1:] {
		if c.Value > m.Value {
			m = c
		}
	}
	return m
}

// maxValue returns the largest value. values must not be empty.
func maxValue(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
