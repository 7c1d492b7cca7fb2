package entity

// MessageRole identifies who produced a conversation message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message is one entry in the conversation history. Assistant messages may
// carry ToolCalls; a RoleTool message answers exactly one of them via
// ToolCallID.
type Message struct {
	Role       MessageRole
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// ToolCall is a model-requested tool invocation. Arguments is the raw JSON
// string as the model produced it; each tool decodes it into its own input
// type.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDefinition is the schema advertised to the model for one tool.
// Parameters is a JSON-schema object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}
