// Package optimization drives a route optimization job on the remote service:
// translate the request, submit it with retries, poll the job to a terminal
// state and translate the result.
package optimization

import "time"

type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// POI is a point of interest to visit. Nil pointer fields take their default
// when the request is translated.
type POI struct {
	ID                   int64
	Name                 string
	Latitude             float64
	Longitude            float64
	Category             string
	Subcategory          string
	VisitDurationMinutes *int
	Cost                 *float64
	Rating               *float64
	Description          string
	Accessibility        *bool
	ProviderID           *int64
	ProviderName         string
}

type Preferences struct {
	OptimizeFor           string
	MaxTotalTimeMinutes   *int
	MaxTotalCostUnits     *float64
	PreferredCategories   []string
	AvoidCategories       []string
	AccessibilityRequired *bool
}

type Constraints struct {
	StartLocation             *Location
	EndLocation               *Location
	StartTime                 string
	LunchBreakRequired        *bool
	LunchBreakDurationMinutes *int
}

type OptimizationRequest struct {
	RouteID     string
	UserID      string
	POIs        []POI
	Preferences *Preferences
	Constraints *Constraints
}

// Job is the remote handle for one in-flight optimization.
type Job struct {
	JobID         string
	Status        JobStatus
	Progress      int
	Message       string
	QueuePosition int
}

type OptimizedPOI struct {
	POIID              int64
	Name               string
	Latitude           float64
	Longitude          float64
	VisitOrder         int
	EstimatedVisitTime int
	ArrivalTime        string
	DepartureTime      string
}

// OptimizationResult is the final optimized route. Metrics are nil when the
// remote service returned no results block.
type OptimizationResult struct {
	RequestID         string
	OptimizedRouteID  string
	Algorithm         string
	TotalDistanceKm   *float64
	TotalTimeMinutes  *int
	OptimizationScore *float64
	Sequence          []OptimizedPOI
	ProcessedAt       time.Time
}

// HasResults reports whether the remote service returned any metrics.
func (r *OptimizationResult) HasResults() bool {
	return r.TotalDistanceKm != nil || len(r.Sequence) > 0
}
