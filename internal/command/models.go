package command

// Identity is the sender of an inbound message: the numeric transport id
// plus an optional display handle.
type Identity struct {
	ID     int64
	Handle string
}

// Message is one transport-neutral inbound command. The transport adapter
// parses the raw update into this shape before dispatch.
type Message struct {
	ChatID    int64
	MessageID int
	// Command is the bare command name, no slash ("check", "add", ...).
	Command string
	// Args is everything after the command token, untrimmed of interior
	// whitespace so service descriptions keep their spacing.
	Args string
	From Identity
	// ReplyTo is the sender of the message this one replies to, when the
	// transport delivered one.
	ReplyTo *Identity
}

// Reply is the single response produced for an inbound message. Text is the
// rich rendering; Plain is the equivalent content with formatting markers
// stripped, used when the transport rejects the rich form.
type Reply struct {
	Text     string
	Plain    string
	Markdown bool
}

// plainReply builds a formatting-free reply.
func plainReply(text string) Reply {
	return Reply{Text: text, Plain: text}
}
