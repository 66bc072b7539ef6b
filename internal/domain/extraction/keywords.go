package extraction

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// Keyword families used by the extractors. All entries are lower-case NFC and are
// matched as plain substrings of the lower-cased line.
var (
	confirmKeywords = []string{
		"số tiền", "amount", "thanh toán", "chuyển khoản", "transaction", "giá trị",
		"total", "cộng", "money", "so tien", "chuyen khoan", "gia tri",
	}
	blockKeywords = []string{
		"số dư", "balance", "phí", "fee", "charge", "vat", "tax", "điện thoại", "tel",
		"fax", "mst", "mã số thuế", "lệ phí", "so du", "le phi",
	}
	currencyKeywords = []string{"vnd", "đ", "vnđ", "usd"}
	accountKeywords  = []string{"tài khoản", "account", "stk"}

	invoiceTotalKeywords  = []string{"thanh toán", "tổng cộng", "cộng tiền hàng"}
	invoicePreTaxKeywords = []string{"tiền hàng", "thành tiền", "trước thuế"}
)

// Static keyword sets are built once and shared by every extraction.
var (
	blockSet         = NewKeywordSet(blockKeywords)
	currencySet      = NewKeywordSet(currencyKeywords)
	accountSet       = NewKeywordSet(accountKeywords)
	invoiceTotalSet  = NewKeywordSet(invoiceTotalKeywords)
	invoicePreTaxSet = NewKeywordSet(invoicePreTaxKeywords)
	staticConfirmSet = NewKeywordSet(confirmKeywords)
)

// KeywordSet answers "does this line contain any of these keywords" in a single pass
// using the Aho-Corasick algorithm, independent of the number of keywords.
type KeywordSet struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	// The matcher keeps per-call bookkeeping internally, so Match is serialized.
	mu sync.Mutex
}

// NewKeywordSet builds a matcher from keywords. Keywords are normalized to lower-case
// NFC; blanks and duplicates are dropped.
func NewKeywordSet(keywords []string) *KeywordSet {
	ks := &KeywordSet{}

	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		clean := NormalizeKeyword(kw)
		if clean == "" {
			continue
		}
		if _, exists := seen[clean]; exists {
			continue
		}
		seen[clean] = struct{}{}
		ks.keywords = append(ks.keywords, clean)
	}

	if len(ks.keywords) > 0 {
		// Convert string patterns to [][]byte for the Aho-Corasick matcher
		patterns := make([][]byte, len(ks.keywords))
		for i, kw := range ks.keywords {
			patterns[i] = []byte(kw)
		}
		ks.matcher = ahocorasick.NewMatcher(patterns)
	}
	return ks
}

// withConfirmKeywords returns the confirm set extended with learned keywords. The static
// set is reused when nothing was learned.
func withConfirmKeywords(learned []string) *KeywordSet {
	if len(learned) == 0 {
		return staticConfirmSet
	}
	all := make([]string, 0, len(confirmKeywords)+len(learned))
	all = append(all, confirmKeywords...)
	all = append(all, learned...)
	return NewKeywordSet(all)
}

// NormalizeKeyword trims, lower-cases and NFC-normalizes a keyword.
func NormalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(normalize(kw)))
}

// ContainsAny reports whether the already lower-cased line contains any keyword.
func (ks *KeywordSet) ContainsAny(lowerLine string) bool {
	if ks == nil || ks.matcher == nil || lowerLine == "" {
		return false
	}
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return len(ks.matcher.Match([]byte(lowerLine))) > 0
}

// Matches returns the keywords found in the already lower-cased line, in keyword order.
func (ks *KeywordSet) Matches(lowerLine string) []string {
	if ks == nil || ks.matcher == nil || lowerLine == "" {
		return nil
	}
	ks.mu.Lock()
	hits := ks.matcher.Match([]byte(lowerLine))
	ks.mu.Unlock()

	if len(hits) == 0 {
		return nil
	}
	found := make([]bool, len(ks.keywords))
	for _, idx := range hits {
		if idx >= 0 && idx < len(found) {
			found[idx] = true
		}
	}
	out := make([]string, 0, len(hits))
	for i, ok := range found {
		if ok {
			out = append(out, ks.keywords[i])
		}
	}
	return out
}

// Len returns the number of distinct keywords in the set.
func (ks *KeywordSet) Len() int {
	if ks == nil {
		return 0
	}
	return len(ks.keywords)
}
