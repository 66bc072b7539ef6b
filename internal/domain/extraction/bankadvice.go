package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Bank-advice scoring weights.
const (
	// minAdviceAmount is the smallest line maximum considered a transfer amount.
	minAdviceAmount = 1000
	// suspiciousAmount is the value above which an uncorroborated token is penalized;
	// such values are usually adjacent numbers glued together by OCR.
	suspiciousAmount = 100_000_000
	// scoreFloor is the exclusive lower bound for keeping a candidate.
	scoreFloor = -10

	confirmScore        = 10
	currencyScore       = 5
	blockedPenalty      = -20
	accountPenalty      = -5
	formatMatchScore    = 3
	uncorroboratedScore = -3
)

var (
	memoLabelRe        = regexp.MustCompile(`(?i)(?:nội dung|diễn giải|lý do|remarks|narrative|description|message)`)
	beneficiaryLabelRe = regexp.MustCompile(`(?i)(?:người hưởng|đơn vị thụ hưởng|tài khoản nhận|tên người nhận|bên nhận|beneficiary)`)
)

// ExtractBankAdvice extracts the transferred amount, date, memo and beneficiary from a
// bank payment advice. learned holds confirm keywords learned from user corrections; it
// is read once and never retained.
func ExtractBankAdvice(text string, learned []string) (ExtractedDocument, string) {
	doc, _, warning := extractBankAdvice(text, learned)
	return doc, warning
}

func extractBankAdvice(text string, learned []string) (ExtractedDocument, []ScoredCandidate, string) {
	doc := newDocument(BankAdvice, text)

	warning := inspectText(text)
	if warning == WarningEmptyText {
		return doc, nil, warning
	}

	lines := splitLines(text)
	candidates, fallback := scoreLines(lines, withConfirmKeywords(learned))

	doc.Date = extractDate(normalize(text))
	doc.TotalAmount = decimal.NewFromFloat(pickTotal(candidates, fallback))
	doc.PreTaxAmount = doc.TotalAmount
	doc.Memo = extractMemo(lines)
	doc.Seller = extractBeneficiary(lines)

	return doc, candidates, warning
}

// ScoreCandidates returns every surviving total candidate of a bank advice in line order.
func ScoreCandidates(text string, learned []string) []ScoredCandidate {
	candidates, _ := scoreLines(splitLines(text), withConfirmKeywords(learned))
	return candidates
}

// scoreLines scores the largest amount of each line. It also returns the fallback pool:
// the largest amount of every line without a block keyword.
func scoreLines(lines []string, confirm *KeywordSet) ([]ScoredCandidate, []float64) {
	var (
		candidates []ScoredCandidate
		fallback   []float64
		boost      lineBoost
	)

	for _, line := range lines {
		lower := strings.ToLower(line)
		matched := confirm.Matches(lower)
		hasConfirm := len(matched) > 0
		amounts := CandidatesFromLine(line)

		if hasConfirm && len(amounts) == 0 {
			// Bare label; its value is expected on the next line.
			boost.arm(labelBoost)
			continue
		}
		if len(amounts) == 0 {
			boost.reset()
			continue
		}

		maxVal := largestCandidate(amounts).Value
		if maxVal < minAdviceAmount {
			boost.reset()
			continue
		}

		blocked := blockSet.ContainsAny(lower)
		if !blocked {
			fallback = append(fallback, maxVal)
		}

		score := boost.take()
		if hasConfirm {
			score += confirmScore
		}
		if currencySet.ContainsAny(lower) {
			score += currencyScore
		}
		if blocked && !hasConfirm {
			score += blockedPenalty
		}
		if accountSet.ContainsAny(lower) {
			score += accountPenalty
		}
		if FormatMatches(maxVal, line) {
			score += formatMatchScore
		} else if maxVal > suspiciousAmount {
			score += uncorroboratedScore
		}

		if score > scoreFloor {
			candidates = append(candidates, ScoredCandidate{
				Value:    maxVal,
				Score:    score,
				Line:     line,
				Keywords: matched,
			})
		}
	}

	return candidates, fallback
}

// pickTotal returns the candidate with the highest (score, value), else the largest
// fallback value, else 0.
func pickTotal(candidates []ScoredCandidate, fallback []float64) float64 {
	if len(candidates) > 0 {
		ranked := make([]ScoredCandidate, len(candidates))
		copy(ranked, candidates)
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Score != ranked[j].Score {
				return ranked[i].Score > ranked[j].Score
			}
			return ranked[i].Value > ranked[j].Value
		})
		return ranked[0].Value
	}
	if len(fallback) > 0 {
		return maxValue(fallback)
	}
	return 0
}

// extractMemo returns the payment description: the text after the first ':', '.' or '-'
// on the first memo label line, or the whole line when it has no delimiter.
func extractMemo(lines []string) string {
	for _, line := range lines {
		if !memoLabelRe.MatchString(line) {
			continue
		}
		if i := strings.IndexAny(line, ":.-"); i >= 0 {
			return strings.TrimSpace(line[i+1:])
		}
		return strings.TrimSpace(line)
	}
	return ""
}

// extractBeneficiary returns the receiving party. The text after the last ':' is used
// when it is longer than three characters; otherwise the label stands alone and the
// value is the next line.
func extractBeneficiary(lines []string) string {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !beneficiaryLabelRe.MatchString(trimmed) {
			continue
		}
		parts := strings.Split(trimmed, ":")
		if last := strings.TrimSpace(parts[len(parts)-1]); len(parts) > 1 && len([]rune(last)) > 3 {
			return last
		}
		if i+1 < len(lines) {
			return strings.TrimSpace(lines[i+1])
		}
	}
	return ""
}
