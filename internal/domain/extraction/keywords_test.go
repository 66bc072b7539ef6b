package extraction

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordSet_ContainsAny(t *testing.T) {
	ks := NewKeywordSet([]string{"Số Tiền", "amount", " ", "amount"})

	assert.Equal(t, 2, ks.Len())

	tests := []struct {
		name string
		line string
		want bool
	}{
		{"vietnamese keyword", "số tiền: 5.000.000", true},
		{"english keyword mid line", "transfer amount 100", true},
		{"no keyword", "số dư: 10.000", false},
		{"empty line", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ks.ContainsAny(tt.line))
		})
	}
}

func TestKeywordSet_Matches(t *testing.T) {
	got := blockSet.Matches("phí chuyển tiền, vat 10%, tel 0123")
	assert.Equal(t, []string{"phí", "vat", "tel"}, got)

	assert.Nil(t, blockSet.Matches("số tiền"))
}

func TestKeywordSet_Empty(t *testing.T) {
	var nilSet *KeywordSet
	assert.False(t, nilSet.ContainsAny("amount"))
	assert.Equal(t, 0, nilSet.Len())

	empty := NewKeywordSet(nil)
	assert.False(t, empty.ContainsAny("amount"))
	assert.Nil(t, empty.Matches("amount"))
}

func TestWithConfirmKeywords(t *testing.T) {
	assert.Same(t, staticConfirmSet, withConfirmKeywords(nil))

	extended := withConfirmKeywords([]string{"Tiền chuyển đi", "số tiền"})
	assert.Equal(t, len(confirmKeywords)+1, extended.Len())
	assert.True(t, extended.ContainsAny("tiền chuyển đi 9.000.000"))
	assert.False(t, staticConfirmSet.ContainsAny("tiền chuyển đi 9.000.000"))
}

func TestNormalizeKeyword(t *testing.T) {
	assert.Equal(t, "số tiền", NormalizeKeyword("  Số Tiền "))
	assert.Equal(t, "", NormalizeKeyword("   "))
}

func TestKeywordSet_ConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, currencySet.ContainsAny("25.000.000 vnd"))
				assert.False(t, currencySet.ContainsAny("25.000.000"))
			}
		}()
	}
	wg.Wait()
}
