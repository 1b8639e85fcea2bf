package core

// Reconcile decodes one poll's raw sequence into the view that replaces the previous one.
// Position is the index in raw; order is never changed.
func Reconcile(raw []WireMessage) []ChatMessage {
	view := make([]ChatMessage, len(raw))
	for i, wire := range raw {
		msg := Decode(wire)
		msg.Position = i
		view[i] = msg
	}
	return view
}
