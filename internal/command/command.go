// Package command routes an inbound message to one of three behaviors:
// inspect the stored history, reset it, or continue the conversation.
package command

// Kind is the routing decision for one inbound message.
type Kind int

const (
	// Continue forwards the text to the completion API with full history.
	Continue Kind = iota
	// Inspect replies with a transcript of the current history.
	Inspect
	// Reset overwrites the history with the seed turn.
	Reset
)

// Directive carries the decision and, for Continue, the user text.
type Directive struct {
	Kind Kind
	Text string
}

// Interpret matches the command literals exactly: no trimming, no case
// folding. "Clear" or " list" are ordinary messages.
func Interpret(text string) Directive {
	switch text {
	case "list":
		return Directive{Kind: Inspect}
	case "clear":
		return Directive{Kind: Reset}
	default:
		return Directive{Kind: Continue, Text: text}
	}
}
