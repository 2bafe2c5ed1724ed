package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownChatType    = errors.New("unknown chat type")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrUnknownEntityType  = errors.New("unknown text entity type")
)

// Chat is a single exported chat transcript.
type Chat struct {
	Name     string    `json:"name"`
	Type     ChatType  `json:"type"`
	ID       uint64    `json:"id"`
	Messages []Message `json:"messages"`
}

// Message is one entry of the transcript. Service messages (joins, pins, title
// changes) keep their place in the log but never contribute tokens.
type Message struct {
	ID           uint64       `json:"id"`
	Type         MessageType  `json:"type"`
	Date         Timestamp    `json:"date"`
	From         *Person      `json:"from"`
	TextEntities []TextEntity `json:"text_entities"`
}

// IsCountable reports whether the message takes part in token counting.
func (m *Message) IsCountable() bool {
	return m.Type == MessageTypeRegular
}

// TextEntity is a styled run of text within a message.
type TextEntity struct {
	Type TextEntityType `json:"type"`
	Text string         `json:"text"`
}

// IsCountable reports whether the segment's text is tokenized.
func (e *TextEntity) IsCountable() bool {
	return !e.Type.IsMeta()
}

// ChatType is the kind of chat the transcript was exported from.
type ChatType int

const (
	ChatTypeUnknown ChatType = iota
	ChatTypePublicChannel
	ChatTypePrivateChannel
	ChatTypePublicSupergroup
	ChatTypePrivateSupergroup
	ChatTypePersonalChat
	ChatTypeChatForbidden
)

var chatTypeNames = map[ChatType]string{
	ChatTypeUnknown:           "unknown",
	ChatTypePublicChannel:     "public_channel",
	ChatTypePrivateChannel:    "private_channel",
	ChatTypePublicSupergroup:  "public_supergroup",
	ChatTypePrivateSupergroup: "private_supergroup",
	ChatTypePersonalChat:      "personal_chat",
	ChatTypeChatForbidden:     "chat_forbidden",
}

func (t ChatType) String() string {
	if name, ok := chatTypeNames[t]; ok {
		return name
	}
	return chatTypeNames[ChatTypeUnknown]
}

func (t ChatType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ChatType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, chatTypeNames, ErrUnknownChatType)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MessageType separates user-authored messages from system notices.
type MessageType int

const (
	MessageTypeRegular MessageType = iota
	MessageTypeService
)

var messageTypeNames = map[MessageType]string{
	MessageTypeRegular: "message",
	MessageTypeService: "service",
}

func (t MessageType) String() string {
	return messageTypeNames[t]
}

func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *MessageType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, messageTypeNames, ErrUnknownMessageType)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TextEntityType is the formatting kind of a TextEntity.
type TextEntityType int

const (
	EntityPlain TextEntityType = iota
	EntityBold
	EntityItalic
	EntityUnderline
	EntityStrikethrough
	EntitySpoiler
	EntityCode
	EntityPre
	EntityLink
	EntityTextLink
	EntityHashtag
	EntityCashtag
	EntityMention
	EntityMentionName
	EntityBotCommand
	EntityEmail
	EntityPhone
	EntityCustomEmoji
)

var entityTypeNames = map[TextEntityType]string{
	EntityPlain:         "plain",
	EntityBold:          "bold",
	EntityItalic:        "italic",
	EntityUnderline:     "underline",
	EntityStrikethrough: "strikethrough",
	EntitySpoiler:       "spoiler",
	EntityCode:          "code",
	EntityPre:           "pre",
	EntityLink:          "link",
	EntityTextLink:      "text_link",
	EntityHashtag:       "hashtag",
	EntityCashtag:       "cashtag",
	EntityMention:       "mention",
	EntityMentionName:   "mention_name",
	EntityBotCommand:    "bot_command",
	EntityEmail:         "email",
	EntityPhone:         "phone",
	EntityCustomEmoji:   "custom_emoji",
}

// IsMeta reports whether the kind carries non-lexical content (contacts,
// commands, mentions, emoji markup) that must not be counted as words.
func (t TextEntityType) IsMeta() bool {
	switch t {
	case EntityPhone, EntityBotCommand, EntityEmail, EntityCustomEmoji, EntityMention:
		return true
	}
	return false
}

func (t TextEntityType) String() string {
	return entityTypeNames[t]
}

func (t TextEntityType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TextEntityType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, entityTypeNames, ErrUnknownEntityType)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func unmarshalEnum[T comparable](data []byte, names map[T]string, unknown error) (T, error) {
	var zero T
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return zero, err
	}
	for v, name := range names {
		if name == s {
			return v, nil
		}
	}
	return zero, fmt.Errorf("%w: %q", unknown, s)
}

// TimestampLayout is the zone-less date format used by chat exports.
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp is a wall-clock time without a zone.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return fmt.Errorf("invalid message date %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
