package input

import "context"

type ChatResult struct {
	Answer     string
	ToolRounds int
}

// ChatExecutor runs one conversational turn: the user message goes into the
// history, the model is called until it stops asking for tools, and the
// final text comes back.
type ChatExecutor interface {
	Chat(ctx context.Context, userMessage string) (*ChatResult, error)
}
