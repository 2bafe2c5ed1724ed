package mapreduce

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/chat-stats/models"
)

// TokenCount is one row of a top-N listing.
type TokenCount struct {
	Token models.Token `json:"token" yaml:"token"`
	Count int          `json:"count" yaml:"count"`
}

func (tc TokenCount) String() string {
	return fmt.Sprintf("%s:%d", tc.Token, tc.Count)
}

// TopTokens returns the n most frequent tokens, most frequent first.
// Equal counts are ordered by token so the listing is stable across runs.
// n <= 0 returns every token.
func TopTokens(counts models.FrequencyMap, n int) []TokenCount {
	ss := make([]TokenCount, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, TokenCount{Token: k, Count: v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Token < ss[j].Token
	})

	if n > 0 && len(ss) > n {
		ss = ss[:n]
	}
	return ss
}

// TopKeywords formats TopTokens as "token:count" strings.
func TopKeywords(counts models.FrequencyMap, n int) []string {
	top := TopTokens(counts, n)
	keywords := make([]string, len(top))
	for i, tc := range top {
		keywords[i] = tc.String()
	}
	return keywords
}
