package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/chat-stats/models"
	"github.com/dtnitsch/chat-stats/pkg/detector"
	"github.com/dtnitsch/chat-stats/pkg/mapreduce"
	"github.com/dtnitsch/chat-stats/pkg/storage"
)

// Languages carries optional language detection results into the summary.
type Languages struct {
	Chat    *detector.LanguageInfo
	Members map[models.Person]detector.LanguageInfo
}

// GenerateSummary builds the summary of stats for chat, keeping the top n
// tokens overall and per member. Members are ordered by occurrences, most
// active first.
func GenerateSummary(chat *models.Chat, stats *models.ChatStatistics, n int, langs *Languages) *SummaryManifest {
	m := &SummaryManifest{
		GeneratedAt:  time.Now().Format(time.RFC3339),
		ChatName:     chat.Name,
		MessageCount: len(chat.Messages),
		NumTokens:    stats.NumTokens,
		Occurrences:  Occurrences(stats.Tokens),
		TopTokens:    mapreduce.TopTokens(stats.Tokens, n),
		Members:      make([]MemberSummary, 0, len(stats.MembersTokens)),
	}
	if langs != nil {
		m.Language = langs.Chat
	}

	for member, tokens := range stats.MembersTokens {
		summary := MemberSummary{
			Member:         string(member),
			DistinctTokens: len(tokens),
			Occurrences:    Occurrences(tokens),
			TopTokens:      mapreduce.TopTokens(tokens, n),
		}
		if langs != nil {
			if info, ok := langs.Members[member]; ok {
				summary.Language = &info
			}
		}
		m.Members = append(m.Members, summary)
	}

	sort.Slice(m.Members, func(i, j int) bool {
		if m.Members[i].Occurrences != m.Members[j].Occurrences {
			return m.Members[i].Occurrences > m.Members[j].Occurrences
		}
		return m.Members[i].Member < m.Members[j].Member
	})

	return m
}

// Occurrences sums all counts of a frequency map.
func Occurrences(counts models.FrequencyMap) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

// Save writes the manifest as YAML when path ends in .yaml or .yml and as
// indented JSON otherwise.
func Save(m *SummaryManifest, path string, s *storage.Storage) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(m)
	default:
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFile(path, data); err != nil {
		return fmt.Errorf("error saving manifest: %w", err)
	}
	return nil
}
