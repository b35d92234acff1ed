package actions

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

// ConfigureAgent assigns the agent its identity.
type ConfigureAgent struct {
	base
	agentID string
}

// NewConfigureAgent uses agentID, or a random UUID when it is blank.
func NewConfigureAgent(agentID string, log *logger.Logger) *ConfigureAgent {
	return &ConfigureAgent{
		base:    newBase(engine.StageConfigureAgent, KindConfigureAgent, log),
		agentID: strings.TrimSpace(agentID),
	}
}

func (a *ConfigureAgent) Execute(_ context.Context, ec *engine.ExecutionContext) error {
	id := a.agentID
	if id == "" {
		id = uuid.NewString()
	}
	if err := ec.SetAgentID(id); err != nil {
		return err
	}
	a.logger.With("agent_id", id).Info("agent configured")
	return nil
}
