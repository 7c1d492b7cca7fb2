package openrouter

import (
	"testing"

	"lightning-agent/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestConvertResponseMessage_WithContent(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Your balance is 10,000 sats.",
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleAssistant, result.Role)
	assert.Equal(t, "Your balance is 10,000 sats.", result.Content)
	assert.Empty(t, result.ToolCalls)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_123",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "check_balance",
					Arguments: `{}`,
				},
			},
		},
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleAssistant, result.Role)
	assert.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_123", result.ToolCalls[0].ID)
	assert.Equal(t, "check_balance", result.ToolCalls[0].Name)
}

func TestConvertMessages_ToolResultCarriesCorrelationID(t *testing.T) {
	messages := []entity.Message{
		{
			Role: entity.RoleAssistant,
			ToolCalls: []entity.ToolCall{
				{ID: "call_1", Name: "pay_invoice", Arguments: `{"invoice":"lnbc"}`},
			},
		},
		{
			Role:       entity.RoleTool,
			ToolCallID: "call_1",
			Name:       "pay_invoice",
			Content:    "PAYMENT REQUIRES CONFIRMATION",
		},
	}

	result := convertMessages(messages)

	assert.Len(t, result, 2)
	assert.Len(t, result[0].ToolCalls, 1)
	assert.Equal(t, "call_1", result[0].ToolCalls[0].ID)
	assert.Equal(t, "tool", result[1].Role)
	assert.Equal(t, "call_1", result[1].ToolCallID)
}

func TestConvertTools(t *testing.T) {
	tools := []entity.ToolDefinition{
		{
			Name:        "check_balance",
			Description: "Check all wallet balances.",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}

	result := convertTools(tools)

	assert.Len(t, result, 1)
	assert.Equal(t, openai.ToolTypeFunction, result[0].Type)
	assert.Equal(t, "check_balance", result[0].Function.Name)
}
