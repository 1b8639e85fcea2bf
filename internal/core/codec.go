package core

import "strings"

const (
	// Separator splits sender from content on the wire.
	Separator = ": "
	// UnknownSender is attributed to wire messages without a separator.
	UnknownSender = "Unknown"
)

// Encode packs a sender and content into a wire message.
// A sender containing Separator cannot be attributed unambiguously on decode.
func Encode(sender, content string) WireMessage {
	return sender + Separator + content
}

// Decode splits raw on the first Separator. The returned message has Position 0.
func Decode(raw WireMessage) ChatMessage {
	sender, content, found := strings.Cut(raw, Separator)
	if !found {
		return ChatMessage{Sender: UnknownSender, Content: raw}
	}
	return ChatMessage{Sender: sender, Content: content}
}
