// Package learning persists confirm keywords learned from user corrections of bank
// advice extractions. Extractors never read the store directly; callers take a
// snapshot with Keywords and pass it in.
package learning

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/FACorreiaa/docscan/internal/domain/extraction"
)

var (
	// ErrKeywordNotFound is returned when deleting a keyword that was never learned.
	ErrKeywordNotFound = errors.New("keyword not found")
	// ErrEmptyKeyword is returned for keywords that are blank after normalization.
	ErrEmptyKeyword = errors.New("keyword is empty")
)

// KeywordWeight is a learned keyword and how many times it was taught.
type KeywordWeight struct {
	Keyword   string    `json:"keyword"`
	Weight    int       `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store manages learned keywords.
type Store interface {
	// Learn records a keyword, incrementing its weight when it already exists.
	Learn(ctx context.Context, keyword string) (*KeywordWeight, error)
	// List returns every learned keyword ordered by weight, highest first.
	List(ctx context.Context) ([]KeywordWeight, error)
	// Delete forgets a keyword.
	Delete(ctx context.Context, keyword string) error
	// Keywords returns a read-only snapshot of keyword strings for one extraction.
	Keywords(ctx context.Context) ([]string, error)
}

// normalizeKeyword applies the same normalization the extractors use for matching so
// that "Số Tiền " and "số tiền" are stored once.
func normalizeKeyword(keyword string) (string, error) {
	k := extraction.NormalizeKeyword(keyword)
	if k == "" {
		return "", ErrEmptyKeyword
	}
	return k, nil
}

func sortByWeight(kws []KeywordWeight) {
	sort.SliceStable(kws, func(i, j int) bool {
		if kws[i].Weight != kws[j].Weight {
			return kws[i].Weight > kws[j].Weight
		}
		return kws[i].Keyword < kws[j].Keyword
	})
}

func keywordsOf(kws []KeywordWeight) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = kw.Keyword
	}
	return out
}
