package service

import (
	"fmt"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

// ToolRegistryImpl is the single source of truth for callable tools: the
// definitions handed to the model and the handlers used for dispatch come
// from the same registered objects, so the two cannot drift apart.
type ToolRegistryImpl struct {
	tools map[entity.ToolName]output.ToolPort
	order []entity.ToolName
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools: make(map[entity.ToolName]output.ToolPort),
	}
}

func (r *ToolRegistryImpl) Register(tool output.ToolPort) error {
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	result := make([]entity.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		result = append(result, entity.ToolDefinition{
			Name:        tool.Name().String(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return result
}
