// Package agent provides the action controller - Movi's core state machine.
//
// One conversational turn runs the loop
//
//	MODEL_CALL -> ROUTE -> (EXECUTE | CONSEQUENCE_CHECK -> (EXECUTE | CONFIRM_GATE)) -> MODEL_CALL -> ... -> DONE
//
// synchronously to completion. Safe tools dispatch immediately; high-impact
// tools pass a point-in-time consequence check first, and a found
// consequence halts the turn with a confirmation question instead of
// executing. Resuming a gated action is a brand-new turn: the gate keeps no
// waiting-for-confirmation state, the user's next reply is simply
// re-interpreted by the model.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/model"
	"github.com/movi-ai/movi/internal/tools/executor"
)

// systemPrompt establishes tool-calling behavior and the precedence of
// visual context over textual inference when an image is attached.
const systemPrompt = "You are 'Movi', an AI assistant for transport managers. " +
	"You help operate vehicles, drivers, trips, routes, stops, paths and deployments. " +
	"CRITICAL INSTRUCTION: When identifying entities, you MUST use the exact, full name " +
	"as the user or the data states it. " +
	"ADDITIONAL INSTRUCTION: If an image is provided with a message, it is the primary context. " +
	"Use the visual information in the image to identify what the user is referring to."

// controller states.
type state int

const (
	stateModelCall state = iota
	stateRoute
	stateConsequenceCheck
	stateConfirmGate
	stateExecute
	stateDone
)

// Dispatcher is the tool-registry collaborator.
type Dispatcher interface {
	Execute(ctx context.Context, name string, input map[string]any) (*executor.Result, error)
	IsHighImpact(name string) bool
	ToOpenAIFormat() []map[string]interface{}
}

// Controller drives one request turn against the model and the tool
// registry.
type Controller struct {
	model        model.Model
	tools        Dispatcher
	consequences ConsequenceChecker
	maxToolCalls int
	temperature  float64

	// Cached tool declarations, built once from the registry.
	cachedTools []model.Tool
	once        sync.Once
}

// Config configures the controller.
type Config struct {
	Model        model.Model
	Tools        Dispatcher
	Consequences ConsequenceChecker
	MaxToolCalls int
	Temperature  float64
}

// NewController creates a controller.
func NewController(cfg *Config) *Controller {
	maxCalls := cfg.MaxToolCalls
	if maxCalls < 1 {
		maxCalls = 8
	}
	return &Controller{
		model:        cfg.Model,
		tools:        cfg.Tools,
		consequences: cfg.Consequences,
		maxToolCalls: maxCalls,
		temperature:  cfg.Temperature,
	}
}

// Turn runs the state machine to completion for one conversation turn and
// returns the final assistant message. Tool-level problems are folded into
// tool results for the model to explain; only persistence and model faults
// surface as errors.
func (c *Controller) Turn(ctx context.Context, conv *Conversation) (model.Message, error) {
	current := stateModelCall
	executed := 0

	for current != stateDone {
		switch current {
		case stateModelCall:
			resp, err := c.model.Generate(ctx, &model.Request{
				System:      c.buildSystemPrompt(conv),
				Messages:    conv.Messages,
				Tools:       c.toolDeclarations(),
				Temperature: c.temperature,
			})
			if err != nil {
				return model.Message{}, err
			}

			if len(resp.ToolCalls) == 0 {
				conv.AppendAssistant(resp.Text)
				current = stateDone
				continue
			}

			// Last-wins: the controller acts on the most recent request
			// when the model returns several.
			call := resp.ToolCalls[len(resp.ToolCalls)-1]
			if call.ID == "" {
				call.ID = uuid.NewString()
			}
			conv.PendingToolRequest = &call
			current = stateRoute

		case stateRoute:
			if c.tools.IsHighImpact(conv.PendingToolRequest.Name) {
				slog.Debug("routing high-impact tool", "tool", conv.PendingToolRequest.Name)
				current = stateConsequenceCheck
			} else {
				current = stateExecute
			}

		case stateConsequenceCheck:
			// Point-in-time check: evaluated fresh on every attempt.
			result, err := c.consequences.Evaluate(ctx, conv.PendingToolRequest)
			if err != nil {
				return model.Message{}, err
			}
			if result.HasConsequences {
				conv.PendingConsequence = result.Details
				current = stateConfirmGate
			} else {
				current = stateExecute
			}

		case stateConfirmGate:
			// The call is not executed. State the consequence, ask for
			// confirmation, and end the turn with nothing pending.
			confirmation := fmt.Sprintf(
				"I can do that, but please be aware: %s. This may cancel bookings and affect trip sheets. Do you want to proceed?",
				conv.PendingConsequence)
			conv.AppendAssistant(confirmation)
			conv.ClearPending()
			current = stateDone

		case stateExecute:
			if executed >= c.maxToolCalls {
				return model.Message{}, apperrors.New(apperrors.CodeTurnLimit,
					fmt.Sprintf("turn exceeded %d tool calls", c.maxToolCalls),
					apperrors.CategoryPermanent)
			}

			call := *conv.PendingToolRequest
			result, err := c.tools.Execute(ctx, call.Name, call.Arguments)
			if err != nil {
				return model.Message{}, err
			}

			slog.Info("tool executed", "tool", call.Name, "success", result.Success)
			conv.AppendToolExchange(call, renderResult(result))
			conv.ClearPending()
			executed++
			current = stateModelCall
		}
	}

	return model.Message{
		Role:    model.RoleAssistant,
		Content: conv.LastAssistant(),
	}, nil
}

// buildSystemPrompt appends the current dashboard page as light context.
func (c *Controller) buildSystemPrompt(conv *Conversation) string {
	if conv.CurrentPage == "" {
		return systemPrompt
	}
	return systemPrompt + fmt.Sprintf(" The user is currently viewing the '%s' page.", conv.CurrentPage)
}

// toolDeclarations converts the registry's schemas into model tool
// definitions, once.
func (c *Controller) toolDeclarations() []model.Tool {
	c.once.Do(func() {
		for _, schema := range c.tools.ToOpenAIFormat() {
			// Round-trip through JSON so the controller stays decoupled
			// from the schemas package's concrete type.
			data, err := json.Marshal(schema["function"])
			if err != nil {
				continue
			}
			var tool model.Tool
			if err := json.Unmarshal(data, &tool); err != nil {
				continue
			}
			c.cachedTools = append(c.cachedTools, tool)
		}
	})
	return c.cachedTools
}

// renderResult turns a tool result into the text fed back to the model.
func renderResult(result *executor.Result) string {
	if !result.Success {
		return "Error: " + result.Error
	}
	if result.Data == nil {
		return result.Message
	}
	data, err := json.Marshal(result.Data)
	if err != nil {
		return result.Message
	}
	if result.Message == "" {
		return string(data)
	}
	return result.Message + "\n" + string(data)
}
