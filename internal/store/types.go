package store

import "time"

// Route statuses.
const (
	RouteStatusActive      = "active"
	RouteStatusDeactivated = "deactivated"
)

// Trip live statuses.
const (
	TripStatusScheduled  = "scheduled"
	TripStatusInProgress = "in_progress"
	TripStatusCompleted  = "completed"
)

// ValidRouteStatus reports whether the given status is in the route enum.
func ValidRouteStatus(status string) bool {
	return status == RouteStatusActive || status == RouteStatusDeactivated
}

// Stop is a boarding point with coordinates.
type Stop struct {
	ID        int64   `json:"stop_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Path is an ordered sequence of stops, stored as a comma-separated
// string of stop ids in traversal order.
type Path struct {
	ID             int64  `json:"path_id"`
	Name           string `json:"name"`
	OrderedStopIDs string `json:"ordered_stop_ids"`
}

// Route is a scheduled service over a path.
type Route struct {
	ID          int64  `json:"route_id"`
	PathID      int64  `json:"path_id"`
	DisplayName string `json:"display_name"`
	ShiftTime   string `json:"shift_time"`
	Direction   string `json:"direction,omitempty"`
	StartPoint  string `json:"start_point,omitempty"`
	EndPoint    string `json:"end_point,omitempty"`
	Status      string `json:"status"`
}

// Vehicle is a bus or cab in the fleet.
type Vehicle struct {
	ID           int64  `json:"vehicle_id"`
	LicensePlate string `json:"license_plate"`
	Type         string `json:"type,omitempty"`
	Capacity     int    `json:"capacity"`
}

// Driver is a person who can be deployed on a trip.
type Driver struct {
	ID          int64  `json:"driver_id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// DailyTrip is one dated run of a route.
type DailyTrip struct {
	ID                      int64      `json:"trip_id"`
	RouteID                 int64      `json:"route_id"`
	DisplayName             string     `json:"display_name"`
	TripDate                *time.Time `json:"trip_date,omitempty"`
	BookingStatusPercentage int        `json:"booking_status_percentage"`
	LiveStatus              string     `json:"live_status"`
}

// Deployment assigns one vehicle and one driver to one trip.
// At most one deployment exists per trip.
type Deployment struct {
	ID        int64 `json:"deployment_id"`
	TripID    int64 `json:"trip_id"`
	VehicleID int64 `json:"vehicle_id"`
	DriverID  int64 `json:"driver_id"`
}
