package transcript

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/chat-stats/models"
)

// htmlDateLayout is the prefix of the date tooltip, e.g.
// "19.02.2021 13:45:12 UTC+03:00". The zone suffix is ignored.
const htmlDateLayout = "02.01.2006 15:04:05"

// ParseHTML decodes a messages.html export. HTML exports carry neither the
// chat id nor its type, so those stay zero.
func ParseHTML(r io.Reader) (*models.Chat, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	chat := &models.Chat{
		Name:     strings.TrimSpace(doc.Find(".page_header .text").First().Text()),
		Messages: []models.Message{},
	}

	// "joined" messages omit the author line and belong to the previous author.
	var lastFrom *models.Person
	var parseErr error
	doc.Find("div.message").EachWithBreak(func(i int, s *goquery.Selection) bool {
		message := models.Message{ID: parseMessageID(s.AttrOr("id", ""))}

		if s.HasClass("service") {
			message.Type = models.MessageTypeService
			chat.Messages = append(chat.Messages, message)
			return true
		}
		message.Type = models.MessageTypeRegular

		body := s.ChildrenFiltered(".body")
		if name := strings.TrimSpace(body.ChildrenFiltered(".from_name").First().Text()); name != "" {
			from := models.Person(name)
			lastFrom = &from
		} else if !s.HasClass("joined") {
			lastFrom = nil
		}
		message.From = lastFrom

		date, err := parseHTMLDate(body.ChildrenFiltered(".date").AttrOr("title", ""))
		if err != nil {
			parseErr = fmt.Errorf("message %d: %w", message.ID, err)
			return false
		}
		message.Date = date

		message.TextEntities = extractEntities(body.ChildrenFiltered(".text").First())
		chat.Messages = append(chat.Messages, message)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return chat, nil
}

func parseMessageID(attr string) uint64 {
	id, err := strconv.ParseUint(strings.TrimPrefix(attr, "message"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func parseHTMLDate(title string) (models.Timestamp, error) {
	if len(title) < len(htmlDateLayout) {
		return models.Timestamp{}, fmt.Errorf("invalid message date %q", title)
	}
	t, err := time.Parse(htmlDateLayout, title[:len(htmlDateLayout)])
	if err != nil {
		return models.Timestamp{}, fmt.Errorf("invalid message date %q: %w", title, err)
	}
	return models.Timestamp{Time: t}, nil
}

// extractEntities turns the children of a .text block into text entities.
// Consecutive plain runs are joined.
func extractEntities(text *goquery.Selection) []models.TextEntity {
	var entities []models.TextEntity
	text.Contents().Each(func(i int, s *goquery.Selection) {
		entity := entityFromNode(s)
		if entity.Text == "" {
			return
		}
		if n := len(entities); n > 0 && entity.Type == models.EntityPlain && entities[n-1].Type == models.EntityPlain {
			entities[n-1].Text += entity.Text
			return
		}
		entities = append(entities, entity)
	})
	return entities
}

func entityFromNode(s *goquery.Selection) models.TextEntity {
	switch goquery.NodeName(s) {
	case "br":
		return models.TextEntity{Type: models.EntityPlain, Text: "\n"}
	case "strong", "b":
		return models.TextEntity{Type: models.EntityBold, Text: s.Text()}
	case "em", "i":
		return models.TextEntity{Type: models.EntityItalic, Text: s.Text()}
	case "u":
		return models.TextEntity{Type: models.EntityUnderline, Text: s.Text()}
	case "s", "del", "strike":
		return models.TextEntity{Type: models.EntityStrikethrough, Text: s.Text()}
	case "code":
		return models.TextEntity{Type: models.EntityCode, Text: s.Text()}
	case "pre":
		return models.TextEntity{Type: models.EntityPre, Text: s.Text()}
	case "a":
		return linkEntity(s)
	case "span":
		if s.HasClass("spoiler") {
			return models.TextEntity{Type: models.EntitySpoiler, Text: s.Text()}
		}
	}
	return models.TextEntity{Type: models.EntityPlain, Text: s.Text()}
}

func linkEntity(s *goquery.Selection) models.TextEntity {
	href := s.AttrOr("href", "")
	text := s.Text()

	var kind models.TextEntityType
	switch {
	case strings.HasPrefix(href, "mailto:"):
		kind = models.EntityEmail
	case strings.HasPrefix(href, "tel:"):
		kind = models.EntityPhone
	case strings.HasPrefix(text, "@"):
		kind = models.EntityMention
	case strings.HasPrefix(text, "#"):
		kind = models.EntityHashtag
	case strings.HasPrefix(text, "$"):
		kind = models.EntityCashtag
	case strings.HasPrefix(text, "/"):
		kind = models.EntityBotCommand
	case href == text:
		kind = models.EntityLink
	default:
		kind = models.EntityTextLink
	}
	return models.TextEntity{Type: kind, Text: text}
}
