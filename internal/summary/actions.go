package summary

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chat-stats/internal/common"
	"github.com/dtnitsch/chat-stats/internal/gather"
	"github.com/dtnitsch/chat-stats/pkg/detector"
	"github.com/dtnitsch/chat-stats/pkg/manifest"
	"github.com/dtnitsch/chat-stats/pkg/mapreduce"
	"github.com/dtnitsch/chat-stats/pkg/storage"
)

// SummaryAction prints the top tokens of a transcript overall and per member.
func SummaryAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	config, err := common.ResolveConfig(c)
	if err != nil {
		return err
	}

	s := &storage.Storage{}
	source, err := common.LoadSource(s, config, c.String("file"))
	if err != nil {
		return err
	}

	statistics, err := gather.Run(logger, source, config)
	if err != nil {
		return err
	}

	var langs *manifest.Languages
	if !c.Bool("no-language") {
		logger.Info("Detecting languages")
		d := detector.NewDetector()
		langs = &manifest.Languages{Members: d.DetectMembers(source.Chat)}
		if info, ok := d.DetectChat(source.Chat); ok {
			langs.Chat = &info
		}
	}

	m := manifest.GenerateSummary(source.Chat, statistics, c.Int("top"), langs)
	Print(os.Stdout, m)

	if out := c.String("manifest"); out != "" {
		if err := manifest.Save(m, out, s); err != nil {
			return err
		}
		logger.Info("Summary manifest saved", "path", out)
	}
	return nil
}

// Print renders a summary manifest as plain text.
func Print(w io.Writer, m *manifest.SummaryManifest) {
	fmt.Fprintf(w, "Chat:        %s\n", m.ChatName)
	fmt.Fprintf(w, "Messages:    %s\n", humanize.Comma(int64(m.MessageCount)))
	fmt.Fprintf(w, "Tokens:      %s distinct, %s total\n", humanize.Comma(int64(m.NumTokens)), humanize.Comma(int64(m.Occurrences)))
	if m.Language != nil {
		fmt.Fprintf(w, "Language:    %s (%.0f%%)\n", m.Language.Language, m.Language.Confidence*100)
	}

	fmt.Fprintf(w, "\nTop tokens:\n")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	printTokens(w, m.TopTokens)

	for _, member := range m.Members {
		fmt.Fprintf(w, "\n%s (%s distinct, %s total", member.Member,
			humanize.Comma(int64(member.DistinctTokens)), humanize.Comma(int64(member.Occurrences)))
		if member.Language != nil {
			fmt.Fprintf(w, ", %s", member.Language.Language)
		}
		fmt.Fprintln(w, ")")
		fmt.Fprintln(w, strings.Repeat("-", 40))
		printTokens(w, member.TopTokens)
	}
}

func printTokens(w io.Writer, tokens []mapreduce.TokenCount) {
	for i, tc := range tokens {
		fmt.Fprintf(w, "%3d. %-24s %s\n", i+1, tc.Token, humanize.Comma(int64(tc.Count)))
	}
}
