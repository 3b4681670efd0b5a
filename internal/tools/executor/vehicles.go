// Package executor: vehicle tools.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// GetUnassignedVehicles lists vehicles with no deployment.
type GetUnassignedVehicles struct{ Deps }

func (t *GetUnassignedVehicles) Name() string { return "get_unassigned_vehicles" }

func (t *GetUnassignedVehicles) Description() string {
	return "List license plates of vehicles that are not currently assigned to any trip"
}

func (t *GetUnassignedVehicles) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	vehicles, err := t.Store.ListUnassignedVehicles(ctx)
	if err != nil {
		return nil, err
	}

	if len(vehicles) == 0 {
		return finish(start, NewSuccessResult("All vehicles are currently assigned.", nil), nil)
	}

	plates := make([]string, len(vehicles))
	for i, v := range vehicles {
		plates[i] = v.LicensePlate
	}

	msg := fmt.Sprintf("Unassigned vehicles: %s.", strings.Join(plates, ", "))
	return finish(start, NewSuccessResult(msg, map[string]any{
		"count":    len(vehicles),
		"vehicles": vehicles,
	}), nil)
}
