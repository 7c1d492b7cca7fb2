package chat

import (
	"context"
	"fmt"
	"sync"

	"lightning-agent/internal/application/port/input"
	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

var _ input.ChatExecutor = (*UseCase)(nil)

const (
	defaultMaxToolRounds = 10
	defaultMaxHistory    = 50
	maxResultLen         = 20000
)

// UseCase drives one conversation: it owns the message history and runs the
// model/tool loop for each user turn. Payment notices may be injected from
// the webhook path at any time; every history mutation goes through mu.
type UseCase struct {
	llm          output.LLMPort
	tools        output.ToolRegistry
	logger       output.LoggerPort
	systemPrompt string

	maxToolRounds int
	maxHistory    int

	mu      sync.Mutex
	history []entity.Message
	// blockOpen is true between an assistant tool-calls message and its
	// last tool result. Notices arriving then are parked in pendingNotices;
	// a user message inside the block would break the tool-call/tool-result
	// adjacency the completion API enforces.
	blockOpen      bool
	pendingNotices []string
}

type Option func(*UseCase)

func WithMaxToolRounds(n int) Option {
	return func(uc *UseCase) { uc.maxToolRounds = n }
}

func WithMaxHistory(n int) Option {
	return func(uc *UseCase) { uc.maxHistory = n }
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	systemPrompt string,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		llm:           llm,
		tools:         tools,
		logger:        logger,
		systemPrompt:  systemPrompt,
		maxToolRounds: defaultMaxToolRounds,
		maxHistory:    defaultMaxHistory,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Chat runs a single conversational turn. A model response without tool
// calls ends the turn; otherwise every tool call is dispatched, the results
// are appended in invocation order, and the model is called again. A model
// call failure is returned to the caller with the history untouched by that
// failure, so the next turn can retry.
func (uc *UseCase) Chat(ctx context.Context, userMessage string) (*input.ChatResult, error) {
	uc.append(entity.Message{Role: entity.RoleUser, Content: userMessage})

	toolDefs := uc.tools.Definitions()

	for round := 1; round <= uc.maxToolRounds; round++ {
		uc.logger.Debug("Starting model round", "round", round)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    uc.snapshot(),
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		if len(resp.Message.ToolCalls) == 0 {
			uc.append(resp.Message)
			return &input.ChatResult{
				Answer:     resp.Message.Content,
				ToolRounds: round - 1,
			}, nil
		}

		// All results are gathered before the next model call, and appended
		// in invocation order so correlation ids line up. The block stays
		// open until the last result, deferring injected notices past it.
		uc.openToolBlock(resp.Message)
		calls := resp.Message.ToolCalls
		for i, tc := range calls {
			result := uc.executeTool(ctx, tc)
			msg := entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    result,
			}
			if i == len(calls)-1 {
				uc.closeToolBlock(msg)
			} else {
				uc.append(msg)
			}
		}
	}

	uc.logger.Warn("Tool round limit reached", "maxToolRounds", uc.maxToolRounds)
	answer := fmt.Sprintf("I was unable to complete this request within %d tool rounds. Please try a simpler request.", uc.maxToolRounds)
	uc.append(entity.Message{Role: entity.RoleAssistant, Content: answer})
	return &input.ChatResult{Answer: answer, ToolRounds: uc.maxToolRounds}, nil
}

// InjectNotice appends a user-role message from outside the turn flow,
// typically a payment notification, so the next model call sees it. While
// tool results for a round are still being gathered, the notice is held back
// and appended right after the round's last result.
func (uc *UseCase) InjectNotice(text string) {
	uc.logger.Info("Injecting conversation notice", "text", text)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.blockOpen {
		uc.pendingNotices = append(uc.pendingNotices, text)
		return
	}
	uc.appendLocked(entity.Message{Role: entity.RoleUser, Content: text})
}

// History returns a copy of the current conversation history.
func (uc *UseCase) History() []entity.Message {
	return uc.snapshot()[1:]
}

func (uc *UseCase) executeTool(ctx context.Context, tc entity.ToolCall) string {
	tool, ok := uc.tools.Get(entity.ToolName(tc.Name))
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Unknown tool: %s", tc.Name)
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return fmt.Sprintf("Error executing %s: %s", tc.Name, err.Error())
	}

	if len(result) > maxResultLen {
		result = result[:maxResultLen] + "\n... (truncated)"
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result
}

func (uc *UseCase) append(msg entity.Message) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.appendLocked(msg)
}

// openToolBlock appends the assistant tool-calls message and marks the block
// open in the same critical section, so a concurrent notice can never land
// between the tool calls and their results.
func (uc *UseCase) openToolBlock(msg entity.Message) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.appendLocked(msg)
	uc.blockOpen = true
}

// closeToolBlock appends the round's final tool result, then flushes any
// notices that arrived while the block was open.
func (uc *UseCase) closeToolBlock(msg entity.Message) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.appendLocked(msg)
	uc.blockOpen = false
	for _, text := range uc.pendingNotices {
		uc.appendLocked(entity.Message{Role: entity.RoleUser, Content: text})
	}
	uc.pendingNotices = nil
}

func (uc *UseCase) appendLocked(msg entity.Message) {
	uc.history = append(uc.history, msg)
	if len(uc.history) > uc.maxHistory {
		uc.history = uc.history[len(uc.history)-uc.maxHistory:]
		// Never let the window start on an orphaned tool result: the
		// completion API rejects a tool message without its assistant call.
		for len(uc.history) > 0 && uc.history[0].Role == entity.RoleTool {
			uc.history = uc.history[1:]
		}
	}
}

// snapshot returns the system prompt followed by a copy of the history, so
// model calls never race with injected appends.
func (uc *UseCase) snapshot() []entity.Message {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]entity.Message, 0, len(uc.history)+1)
	out = append(out, entity.Message{Role: entity.RoleSystem, Content: uc.systemPrompt})
	out = append(out, uc.history...)
	return out
}
