package models

// Person is an author's display name. Two authors are the same iff the names
// are byte-identical.
type Person string

// Token is a normalized word. Tokens produced by the tokenizer are substrings
// of the transcript text whenever normalization left them untouched, so they
// share memory with the Chat they came from.
type Token string

// FrequencyMap counts token occurrences. Every stored count is >= 1.
type FrequencyMap map[Token]int

// AuthorFrequencyMap holds one FrequencyMap per author.
type AuthorFrequencyMap map[Person]FrequencyMap

// ChatStatistics is the final report of a gather run.
type ChatStatistics struct {
	NumTokens     int                `json:"num_tokens" yaml:"num_tokens"`
	MembersTokens AuthorFrequencyMap `json:"members_tokens_map" yaml:"members_tokens_map"`
	Tokens        FrequencyMap       `json:"tokens_map" yaml:"tokens_map"`
}

// NewChatStatistics takes ownership of both maps. NumTokens is derived from
// the global map so it cannot drift from what it describes.
func NewChatStatistics(tokens FrequencyMap, members AuthorFrequencyMap) *ChatStatistics {
	if tokens == nil {
		tokens = FrequencyMap{}
	}
	if members == nil {
		members = AuthorFrequencyMap{}
	}
	return &ChatStatistics{
		NumTokens:     len(tokens),
		MembersTokens: members,
		Tokens:        tokens,
	}
}
