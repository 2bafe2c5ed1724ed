package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/chat-stats/models"
)

// DefaultSampleBytes bounds how much text is fed to the language models.
const DefaultSampleBytes = 64 * 1024

// DefaultLanguages are the candidates used when none are given. Restricting
// the set keeps model loading cheap.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.Russian,
	lingua.Ukrainian,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Polish,
	lingua.Turkish,
}

// LanguageInfo is the detected dominant language of a text sample.
type LanguageInfo struct {
	Language   string  `json:"language" yaml:"language"`
	IsoCode    string  `json:"iso_code" yaml:"iso_code"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

type Detector struct {
	detector    lingua.LanguageDetector
	sampleBytes int
}

// NewDetector builds a detector over the given candidate languages.
func NewDetector(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	return &Detector{
		detector:    lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).Build(),
		sampleBytes: DefaultSampleBytes,
	}
}

// DetectText returns the most likely language of text. ok is false when the
// text is too short or ambiguous to decide.
func (d *Detector) DetectText(text string) (LanguageInfo, bool) {
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return LanguageInfo{}, false
	}
	return LanguageInfo{
		Language:   language.String(),
		IsoCode:    strings.ToLower(language.IsoCode639_1().String()),
		Confidence: d.detector.ComputeLanguageConfidence(text, language),
	}, true
}

// DetectChat detects the dominant language of the chat's countable text.
func (d *Detector) DetectChat(chat *models.Chat) (LanguageInfo, bool) {
	return d.DetectText(Sample(chat, d.sampleBytes))
}

// DetectMembers detects a language per author, skipping authors whose text
// is inconclusive.
func (d *Detector) DetectMembers(chat *models.Chat) map[models.Person]LanguageInfo {
	samples := make(map[models.Person]*strings.Builder)
	for i := range chat.Messages {
		message := &chat.Messages[i]
		if !message.IsCountable() || message.From == nil {
			continue
		}
		sb := samples[*message.From]
		if sb == nil {
			sb = &strings.Builder{}
			samples[*message.From] = sb
		}
		appendSample(sb, message, d.sampleBytes)
	}

	languages := make(map[models.Person]LanguageInfo, len(samples))
	for member, sb := range samples {
		if info, ok := d.DetectText(sb.String()); ok {
			languages[member] = info
		}
	}
	return languages
}

// Sample concatenates the countable text of the chat up to limit bytes.
// Meta segments and service messages are skipped, as in token counting.
func Sample(chat *models.Chat, limit int) string {
	var sb strings.Builder
	for i := range chat.Messages {
		if sb.Len() >= limit {
			break
		}
		message := &chat.Messages[i]
		if !message.IsCountable() {
			continue
		}
		appendSample(&sb, message, limit)
	}
	return sb.String()
}

func appendSample(sb *strings.Builder, message *models.Message, limit int) {
	for j := range message.TextEntities {
		entity := &message.TextEntities[j]
		if !entity.IsCountable() || sb.Len() >= limit {
			continue
		}
		sb.WriteString(entity.Text)
		sb.WriteByte(' ')
	}
}
