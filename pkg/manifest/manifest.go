package manifest

import (
	"github.com/dtnitsch/chat-stats/pkg/detector"
	"github.com/dtnitsch/chat-stats/pkg/mapreduce"
)

// SummaryManifest is a lightweight overview of a gather run: the most
// frequent tokens overall and per member, without the full frequency maps.
type SummaryManifest struct {
	GeneratedAt  string                 `json:"generated_at" yaml:"generated_at"`
	ChatName     string                 `json:"chat_name" yaml:"chat_name"`
	MessageCount int                    `json:"message_count" yaml:"message_count"`
	NumTokens    int                    `json:"num_tokens" yaml:"num_tokens"`
	Occurrences  int                    `json:"occurrences" yaml:"occurrences"`
	Language     *detector.LanguageInfo `json:"language,omitempty" yaml:"language,omitempty"`
	TopTokens    []mapreduce.TokenCount `json:"top_tokens" yaml:"top_tokens"`
	Members      []MemberSummary        `json:"members" yaml:"members"`
}

// MemberSummary describes one author's vocabulary.
type MemberSummary struct {
	Member         string                 `json:"member" yaml:"member"`
	DistinctTokens int                    `json:"distinct_tokens" yaml:"distinct_tokens"`
	Occurrences    int                    `json:"occurrences" yaml:"occurrences"`
	Language       *detector.LanguageInfo `json:"language,omitempty" yaml:"language,omitempty"`
	TopTokens      []mapreduce.TokenCount `json:"top_tokens" yaml:"top_tokens"`
}
