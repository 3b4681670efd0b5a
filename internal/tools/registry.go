// Package tools provides a unified tool registry with schemas, executors
// and side-effect classes.
package tools

import (
	"context"
	"fmt"

	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/tools/executor"
	"github.com/movi-ai/movi/internal/tools/schemas"
)

// Impact classifies a tool's side effects.
type Impact int

const (
	// ImpactSafe tools are read-only or reversible; they dispatch
	// immediately.
	ImpactSafe Impact = iota

	// ImpactHigh tools must pass a consequence check before dispatch.
	ImpactHigh
)

// Registry combines schemas, executors and impact classes for complete
// tool management. Built once at process start, immutable thereafter.
type Registry struct {
	schemas    *schemas.Registry
	executors  *executor.Registry
	highImpact map[string]bool
}

// NewRegistry creates a new unified tool registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas:    schemas.NewRegistry(),
		executors:  executor.NewRegistry(),
		highImpact: make(map[string]bool),
	}
}

// Schemas returns the schema registry.
func (r *Registry) Schemas() *schemas.Registry {
	return r.schemas
}

// Register registers a schema, executor and impact class for a tool.
func (r *Registry) Register(tool executor.Tool, schema *schemas.Schema, impact Impact) {
	r.executors.Register(tool)
	r.schemas.Register(schema)
	if impact == ImpactHigh {
		r.highImpact[tool.Name()] = true
	}
}

// IsHighImpact reports whether a tool must pass the consequence check.
func (r *Registry) IsHighImpact(name string) bool {
	return r.highImpact[name]
}

// List returns all registered tool names.
func (r *Registry) List() []string {
	return r.executors.List()
}

// ToOpenAIFormat returns all schemas in OpenAI function calling format.
func (r *Registry) ToOpenAIFormat() []map[string]interface{} {
	return r.schemas.ToOpenAIFormat()
}

// Execute validates the arguments against the tool's schema and runs the
// tool. Unknown names and contract violations come back as unsuccessful
// results, not faults, so the model can relay them conversationally.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (*executor.Result, error) {
	schema, ok := r.schemas.Get(name)
	if !ok {
		return executor.NewErrorResult(
			apperrors.New(apperrors.CodeToolNotFound, "unknown tool: "+name, apperrors.CategoryUser)), nil
	}

	if err := validateArgs(schema, input); err != nil {
		return executor.NewErrorResult(err), nil
	}

	return r.executors.Execute(ctx, name, input)
}

// validateArgs checks required parameters and enum constraints before the
// handler runs.
func validateArgs(schema *schemas.Schema, input map[string]any) error {
	for _, param := range schema.RequiredParams() {
		if _, ok := input[param]; !ok {
			return apperrors.Validation("missing required argument: " + param)
		}
	}

	props, _ := schema.Parameters["properties"].(map[string]interface{})
	for param := range props {
		enum := schema.EnumFor(param)
		if len(enum) == 0 {
			continue
		}
		raw, ok := input[param]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			return apperrors.Validation("argument " + param + " must be a string")
		}
		if !contains(enum, value) {
			return apperrors.Validation(fmt.Sprintf("argument %s must be one of %v", param, enum))
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// Initialize registers the full Movi tool catalog with schemas, executors
// and impact classes.
func Initialize(r *Registry, deps executor.Deps) {
	// === READ TOOLS ===
	r.Register(&executor.GetUnassignedVehicles{Deps: deps},
		schemas.NewSchema("get_unassigned_vehicles", "List license plates of vehicles not assigned to any trip").
			Build(), ImpactSafe)

	r.Register(&executor.GetTripStatus{Deps: deps},
		schemas.NewSchema("get_trip_status", "Get the status, booking percentage, and deployment details for a trip").
			AddParam("trip_identifier", "string", "Trip display name or id", true).
			Build(), ImpactSafe)

	r.Register(&executor.GetAllTrips{Deps: deps},
		schemas.NewSchema("get_all_trips", "List all daily trips").
			Build(), ImpactSafe)

	r.Register(&executor.GetDeploymentDetails{Deps: deps},
		schemas.NewSchema("get_deployment_details", "Get the vehicle and driver deployed on a trip").
			AddParam("trip_identifier", "string", "Trip display name or id", true).
			Build(), ImpactSafe)

	r.Register(&executor.GetAllRoutes{Deps: deps},
		schemas.NewSchema("get_all_routes", "List all routes").
			Build(), ImpactSafe)

	r.Register(&executor.FindRoutesForPath{Deps: deps},
		schemas.NewSchema("find_routes_for_path", "Find all routes that run over a path").
			AddParam("path_identifier", "string", "Path name or id", true).
			Build(), ImpactSafe)

	r.Register(&executor.GetAllStops{Deps: deps},
		schemas.NewSchema("get_all_stops", "List all stops").
			Build(), ImpactSafe)

	r.Register(&executor.ListStopsForPath{Deps: deps},
		schemas.NewSchema("list_stops_for_path", "List the stops of a path in traversal order").
			AddParam("path_identifier", "string", "Path name or id", true).
			Build(), ImpactSafe)

	// === CREATE TOOLS ===
	r.Register(&executor.CreateNewStop{Deps: deps},
		schemas.NewSchema("create_new_stop", "Create a new stop with a unique name and coordinates").
			AddParam("name", "string", "Unique stop name", true).
			AddParam("latitude", "number", "Latitude", true).
			AddParam("longitude", "number", "Longitude", true).
			Build(), ImpactSafe)

	r.Register(&executor.CreateNewPath{Deps: deps},
		schemas.NewSchema("create_new_path", "Create a new path over an ordered list of at least two existing stops").
			AddParam("name", "string", "Unique path name", true).
			AddParam("stop_names", "array", "Stop names in traversal order", true).
			Build(), ImpactSafe)

	r.Register(&executor.CreateNewTrip{Deps: deps},
		schemas.NewSchema("create_new_trip", "Create a new daily trip on a route").
			AddParam("route_identifier", "string", "Route display name or id", true).
			AddParam("display_name", "string", "Unique trip display name", true).
			Build(), ImpactSafe)

	r.Register(&executor.AssignVehicleToTrip{Deps: deps},
		schemas.NewSchema("assign_vehicle_to_trip", "Assign a vehicle and driver to a trip").
			AddParam("trip_identifier", "string", "Trip display name or id", true).
			AddParam("vehicle_identifier", "string", "Vehicle license plate or id", true).
			AddParam("driver_identifier", "string", "Driver name or id", true).
			Build(), ImpactSafe)

	// === HIGH-IMPACT TOOLS ===
	r.Register(&executor.RemoveVehicleFromTrip{Deps: deps},
		schemas.NewSchema("remove_vehicle_from_trip", "Remove the assigned vehicle and driver from a trip").
			AddParam("trip_identifier", "string", "Trip display name or id", true).
			Build(), ImpactHigh)

	r.Register(&executor.UpdateRouteStatus{Deps: deps},
		schemas.NewSchema("update_route_status", "Activate or deactivate a route").
			AddParam("route_identifier", "string", "Route display name or id", true).
			AddParamWithEnum("new_status", "string", "New route status", []string{"active", "deactivated"}, true).
			Build(), ImpactHigh)
}
