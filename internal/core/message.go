package core

// WireMessage is the flat "<sender>: <content>" string exchanged with the remote log.
type WireMessage = string

// ChatMessage is a decoded message positioned within one polled log snapshot.
type ChatMessage struct {
	Sender   string
	Content  string
	Position int
}
