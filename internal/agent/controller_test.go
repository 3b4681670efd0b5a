package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/model"
	"github.com/movi-ai/movi/internal/resolve"
	"github.com/movi-ai/movi/internal/store"
	"github.com/movi-ai/movi/internal/tools"
	"github.com/movi-ai/movi/internal/tools/executor"
)

// scriptedModel replays a fixed sequence of responses and records every
// request it sees.
type scriptedModel struct {
	responses []*model.Response
	requests  []*model.Request
	err       error
}

func (m *scriptedModel) Generate(ctx context.Context, req *model.Request) (*model.Response, error) {
	snapshot := *req
	snapshot.Messages = append([]model.Message(nil), req.Messages...)
	m.requests = append(m.requests, &snapshot)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		panic("scripted model exhausted")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

// spyDispatcher wraps the real registry and records execution order in a
// shared event log.
type spyDispatcher struct {
	*tools.Registry
	events *[]string
}

func (d *spyDispatcher) Execute(ctx context.Context, name string, input map[string]any) (*executor.Result, error) {
	*d.events = append(*d.events, "execute:"+name)
	return d.Registry.Execute(ctx, name, input)
}

// spyChecker wraps the real evaluator and records evaluation order.
type spyChecker struct {
	inner  ConsequenceChecker
	events *[]string
}

func (c *spyChecker) Evaluate(ctx context.Context, call *model.ToolCall) (*ConsequenceResult, error) {
	*c.events = append(*c.events, "evaluate:"+call.Name)
	return c.inner.Evaluate(ctx, call)
}

type fixture struct {
	controller *Controller
	model      *scriptedModel
	store      *store.Store
	events     []string
}

func newFixture(t *testing.T, responses ...*model.Response) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "movi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Seed(context.Background()))

	resolver := resolve.New(s)
	registry := tools.NewRegistry()
	tools.Initialize(registry, executor.Deps{Store: s, Resolver: resolver})

	f := &fixture{
		model: &scriptedModel{responses: responses},
		store: s,
	}
	f.controller = NewController(&Config{
		Model:        f.model,
		Tools:        &spyDispatcher{Registry: registry, events: &f.events},
		Consequences: &spyChecker{inner: NewEvaluator(s, resolver), events: &f.events},
		MaxToolCalls: 8,
	})
	return f
}

func textResponse(text string) *model.Response {
	return &model.Response{Text: text}
}

func toolResponse(calls ...model.ToolCall) *model.Response {
	return &model.Response{ToolCalls: calls}
}

func TestPlainTextTurn(t *testing.T) {
	f := newFixture(t, textResponse("Hello, how can I help?"))
	conv := NewConversation(nil, "hi", "", "")

	reply, err := f.controller.Turn(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "Hello, how can I help?", reply.Content)
	assert.Empty(t, f.events)
}

func TestSafeToolSkipsConsequenceCheck(t *testing.T) {
	f := newFixture(t,
		toolResponse(model.ToolCall{
			Name:      "get_trip_status",
			Arguments: map[string]any{"trip_identifier": "Bulk - 00:01"},
		}),
		textResponse("The trip is 25% booked."),
	)
	conv := NewConversation(nil, "how full is the bulk trip?", "", "")

	reply, err := f.controller.Turn(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, "The trip is 25% booked.", reply.Content)
	assert.Equal(t, []string{"execute:get_trip_status"}, f.events)

	// The second model call sees the tool result.
	require.Len(t, f.model.requests, 2)
	last := f.model.requests[1].Messages[len(f.model.requests[1].Messages)-1]
	assert.Equal(t, model.RoleTool, last.Role)
	assert.Contains(t, last.Content, "25%")
}

func TestHighImpactGatedWhenTripHasBookings(t *testing.T) {
	f := newFixture(t,
		toolResponse(model.ToolCall{
			Name:      "remove_vehicle_from_trip",
			Arguments: map[string]any{"trip_identifier": "Bulk - 00:01"},
		}),
	)
	conv := NewConversation(nil, "remove the vehicle from Bulk - 00:01", "", "")

	reply, err := f.controller.Turn(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t,
		"I can do that, but please be aware: The trip 'Bulk - 00:01' is already 25% booked by employees. "+
			"This may cancel bookings and affect trip sheets. Do you want to proceed?",
		reply.Content)

	// Evaluated, never executed.
	assert.Equal(t, []string{"evaluate:remove_vehicle_from_trip"}, f.events)
	assert.Nil(t, conv.PendingToolRequest)
	assert.Empty(t, conv.PendingConsequence)

	// The deployment survives the gated turn.
	trip, err := f.store.FindTripByName(context.Background(), "Bulk - 00:01")
	require.NoError(t, err)
	deployment, err := f.store.GetDeploymentByTripID(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.NotNil(t, deployment)
}

func TestHighImpactExecutesWhenNoConsequence(t *testing.T) {
	f := newFixture(t,
		toolResponse(model.ToolCall{
			Name:      "remove_vehicle_from_trip",
			Arguments: map[string]any{"trip_identifier": "Path Path - 00:02"},
		}),
		textResponse("Done, the vehicle has been removed."),
	)
	ctx := context.Background()

	// Deploy onto the zero-booking trip so there is something to remove.
	trip, err := f.store.FindTripByName(ctx, "Path Path - 00:02")
	require.NoError(t, err)
	_, err = f.store.CreateDeployment(ctx, trip.ID, 2, 2)
	require.NoError(t, err)

	conv := NewConversation(nil, "remove the vehicle from Path Path - 00:02", "", "")
	reply, err := f.controller.Turn(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, "Done, the vehicle has been removed.", reply.Content)

	// Consequence check always precedes the dispatch.
	assert.Equal(t, []string{
		"evaluate:remove_vehicle_from_trip",
		"execute:remove_vehicle_from_trip",
	}, f.events)

	deployment, err := f.store.GetDeploymentByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, deployment)
}

// A gated action is never remembered. The follow-up turn re-interprets
// the user's reply from scratch and re-checks consequences at that
// moment's state.
func TestConfirmationResumesAsFreshTurn(t *testing.T) {
	f := newFixture(t,
		toolResponse(model.ToolCall{
			Name:      "remove_vehicle_from_trip",
			Arguments: map[string]any{"trip_identifier": "Bulk - 00:01"},
		}),
		toolResponse(model.ToolCall{
			Name:      "remove_vehicle_from_trip",
			Arguments: map[string]any{"trip_identifier": "Bulk - 00:01"},
		}),
		textResponse("The vehicle has been removed from Bulk - 00:01."),
	)
	ctx := context.Background()

	first := NewConversation(nil, "remove the vehicle from Bulk - 00:01", "", "")
	reply, err := f.controller.Turn(ctx, first)
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "Do you want to proceed?")

	// Bookings clear between the two turns.
	trip, err := f.store.FindTripByName(ctx, "Bulk - 00:01")
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateTripBooking(ctx, trip.ID, 0))

	second := NewConversation(first.Messages, "yes, go ahead", "", "")
	reply, err = f.controller.Turn(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "The vehicle has been removed from Bulk - 00:01.", reply.Content)

	deployment, err := f.store.GetDeploymentByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, deployment)
}

// A high-impact call with a missing argument must come back to the model
// as an unsuccessful tool result, never as a turn-level failure.
func TestHighImpactWithMissingArgumentFoldsIntoToolResult(t *testing.T) {
	f := newFixture(t,
		toolResponse(model.ToolCall{
			Name:      "remove_vehicle_from_trip",
			Arguments: map[string]any{},
		}),
		textResponse("Which trip should I remove the vehicle from?"),
	)
	conv := NewConversation(nil, "remove the vehicle", "", "")

	reply, err := f.controller.Turn(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, "Which trip should I remove the vehicle from?", reply.Content)

	// Routed through the consequence check, then rejected by dispatch.
	assert.Equal(t, []string{
		"evaluate:remove_vehicle_from_trip",
		"execute:remove_vehicle_from_trip",
	}, f.events)

	require.Len(t, f.model.requests, 2)
	last := f.model.requests[1].Messages[len(f.model.requests[1].Messages)-1]
	assert.Equal(t, model.RoleTool, last.Role)
	assert.Contains(t, last.Content, "Error:")
	assert.Contains(t, last.Content, "trip_identifier")
}

func TestLastToolCallWins(t *testing.T) {
	f := newFixture(t,
		toolResponse(
			model.ToolCall{Name: "get_all_trips", Arguments: map[string]any{}},
			model.ToolCall{Name: "get_trip_status", Arguments: map[string]any{"trip_identifier": "Bulk - 00:01"}},
		),
		textResponse("done"),
	)
	conv := NewConversation(nil, "status please", "", "")

	_, err := f.controller.Turn(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, []string{"execute:get_trip_status"}, f.events)
}

func TestTurnLimitFailsDeterministically(t *testing.T) {
	call := model.ToolCall{Name: "get_all_trips", Arguments: map[string]any{}}
	f := newFixture(t, toolResponse(call), toolResponse(call), toolResponse(call))
	f.controller.maxToolCalls = 2

	conv := NewConversation(nil, "list trips forever", "", "")
	_, err := f.controller.Turn(context.Background(), conv)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeTurnLimit, appErr.Code)
}

func TestModelFaultFailsTurn(t *testing.T) {
	f := newFixture(t)
	f.model.err = apperrors.New(apperrors.CodeModelUnavailable, "model call failed", apperrors.CategoryTemporary)

	conv := NewConversation(nil, "hi", "", "")
	_, err := f.controller.Turn(context.Background(), conv)
	require.Error(t, err)
	assert.Equal(t, apperrors.CategoryTemporary, apperrors.GetCategory(err))
}

func TestRecoverableToolErrorFedBackToModel(t *testing.T) {
	f := newFixture(t,
		toolResponse(model.ToolCall{
			Name:      "get_trip_status",
			Arguments: map[string]any{"trip_identifier": "Ghost Trip"},
		}),
		textResponse("I couldn't find that trip."),
	)
	conv := NewConversation(nil, "status of ghost trip", "", "")

	reply, err := f.controller.Turn(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find that trip.", reply.Content)

	require.Len(t, f.model.requests, 2)
	last := f.model.requests[1].Messages[len(f.model.requests[1].Messages)-1]
	assert.Equal(t, model.RoleTool, last.Role)
	assert.Contains(t, last.Content, "Error:")
	assert.Contains(t, last.Content, "Ghost Trip")
}

func TestCurrentPageFlowsIntoSystemPrompt(t *testing.T) {
	f := newFixture(t, textResponse("ok"))
	conv := NewConversation(nil, "hi", "Trips Dashboard", "")

	_, err := f.controller.Turn(context.Background(), conv)
	require.NoError(t, err)
	require.Len(t, f.model.requests, 1)
	assert.Contains(t, f.model.requests[0].System, "Trips Dashboard")
}
