package analytics

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"

	"github.com/dtnitsch/chat-stats/models"
)

// Separators split segment text into word fragments. Changing this set
// changes every report, so it is fixed.
const Separators = " ,.()-!?'\"\n\t"

func isSeparator(r rune) bool {
	return strings.ContainsRune(Separators, r)
}

// Fragments yields the non-empty pieces of text between separators.
// The sequence can be ranged over any number of times.
func Fragments(text string) iter.Seq[string] {
	return strings.FieldsFuncSeq(text, isSeparator)
}

// Tokens yields the countable tokens of text: each fragment with emoji
// removed, skipping fragments that were emoji only.
func Tokens(text string) iter.Seq[models.Token] {
	return func(yield func(models.Token) bool) {
		for fragment := range Fragments(text) {
			token := RemoveEmojis(fragment)
			if token == "" {
				continue
			}
			if !yield(models.Token(token)) {
				return
			}
		}
	}
}

// RemoveEmojis drops every grapheme cluster that is an emoji. Clusters are
// used instead of runes so that ZWJ sequences, flags and skin-tone variants
// disappear as a whole. Input without emoji is returned as is, without copying.
func RemoveEmojis(s string) string {
	if isASCII(s) {
		return s
	}
	for {
		stripped, changed := stripEmojiClusters(s)
		if !changed {
			return s
		}
		// Removing a cluster can join its neighbours into a new one.
		s = stripped
	}
}

func stripEmojiClusters(s string) (string, bool) {
	var sb strings.Builder
	changed := false
	rest := s
	state := -1
	offset := 0
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if isEmoji(cluster) {
			if !changed {
				sb.Grow(len(s))
				sb.WriteString(s[:offset])
				changed = true
			}
		} else if changed {
			sb.WriteString(cluster)
		}
		offset += len(cluster)
	}
	if !changed {
		return s, false
	}
	return sb.String(), true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isEmoji(cluster string) bool {
	_, err := gomoji.GetInfo(cluster)
	return err == nil
}
