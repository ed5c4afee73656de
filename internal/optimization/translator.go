package optimization

import (
	"fmt"
	"math"
	"strings"
	"time"

	"routeprocessing/internal/routepb"
)

const (
	AlgorithmRemote = "MRL-AMIS-gRPC"

	defaultVisitDuration      = 60
	defaultCost               = 0.0
	defaultRating             = 4.0
	defaultAccessibility      = true
	defaultProviderID         = 0
	defaultOptimizeFor        = "distance"
	defaultMaxTotalTime       = 480
	defaultMaxTotalCost       = 500.0
	defaultAccessibilityReq   = false
	defaultStartTime          = "08:00"
	defaultLunchBreakRequired = true
	defaultLunchBreakDuration = 60
)

var optimizeTargets = map[string]bool{
	"distance":   true,
	"time":       true,
	"cost":       true,
	"experience": true,
}

// TranslateRequest validates req and maps it to the wire request. Defaults fill
// only the fields that are absent.
func TranslateRequest(req *OptimizationRequest) (*routepb.RouteOptimizationRequest, error) {
	if req == nil {
		return nil, &ValidationError{Message: "request is required"}
	}
	if strings.TrimSpace(req.RouteID) == "" {
		return nil, &ValidationError{Field: "routeId", Message: "must not be empty"}
	}
	if len(req.POIs) == 0 {
		return nil, &ValidationError{Field: "pois", Message: "at least one POI is required"}
	}

	out := &routepb.RouteOptimizationRequest{
		RouteID: req.RouteID,
		UserID:  req.UserID,
		POIs:    make([]routepb.POI, 0, len(req.POIs)),
	}

	for i, p := range req.POIs {
		poi, err := translatePOI(p)
		if err != nil {
			err.Field = fmt.Sprintf("pois[%d].%s", i, err.Field)
			return nil, err
		}
		out.POIs = append(out.POIs, poi)
	}

	prefs, err := translatePreferences(req.Preferences)
	if err != nil {
		return nil, err
	}
	out.Preferences = prefs

	cons, err := translateConstraints(req.Constraints)
	if err != nil {
		return nil, err
	}
	out.Constraints = cons

	return out, nil
}

func translatePOI(p POI) (routepb.POI, *ValidationError) {
	if p.ID <= 0 {
		return routepb.POI{}, &ValidationError{Field: "id", Message: "must be positive"}
	}
	if err := validateCoordinates(p.Latitude, p.Longitude); err != nil {
		return routepb.POI{}, err
	}
	visit, verr := minutes("visitDuration", p.VisitDurationMinutes, defaultVisitDuration)
	if verr != nil {
		return routepb.POI{}, verr
	}

	return routepb.POI{
		ID:            p.ID,
		Name:          p.Name,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		VisitDuration: visit,
		Cost:          valueOr(p.Cost, defaultCost),
		Rating:        valueOr(p.Rating, defaultRating),
		Description:   p.Description,
		Accessibility: valueOr(p.Accessibility, defaultAccessibility),
		ProviderID:    valueOr(p.ProviderID, defaultProviderID),
		ProviderName:  p.ProviderName,
	}, nil
}

func translatePreferences(p *Preferences) (routepb.RoutePreferences, error) {
	if p == nil {
		p = &Preferences{}
	}

	target := p.OptimizeFor
	if target == "" {
		target = defaultOptimizeFor
	}
	if !optimizeTargets[target] {
		return routepb.RoutePreferences{}, &ValidationError{
			Field:   "preferences.optimizeFor",
			Message: fmt.Sprintf("unsupported value %q", target),
		}
	}

	maxTime, verr := minutes("preferences.maxTotalTime", p.MaxTotalTimeMinutes, defaultMaxTotalTime)
	if verr != nil {
		return routepb.RoutePreferences{}, verr
	}

	return routepb.RoutePreferences{
		OptimizeFor:           target,
		MaxTotalTime:          maxTime,
		MaxTotalCost:          valueOr(p.MaxTotalCostUnits, defaultMaxTotalCost),
		PreferredCategories:   p.PreferredCategories,
		AvoidCategories:       p.AvoidCategories,
		AccessibilityRequired: valueOr(p.AccessibilityRequired, defaultAccessibilityReq),
	}, nil
}

func translateConstraints(c *Constraints) (routepb.RouteConstraints, error) {
	if c == nil {
		c = &Constraints{}
	}

	startTime := c.StartTime
	if startTime == "" {
		startTime = defaultStartTime
	}
	if _, err := time.Parse("15:04", startTime); err != nil {
		return routepb.RouteConstraints{}, &ValidationError{
			Field:   "constraints.startTime",
			Message: fmt.Sprintf("%q is not HH:MM", startTime),
		}
	}

	lunch, verr := minutes("constraints.lunchBreakDuration", c.LunchBreakDurationMinutes, defaultLunchBreakDuration)
	if verr != nil {
		return routepb.RouteConstraints{}, verr
	}

	out := routepb.RouteConstraints{
		StartTime:          startTime,
		LunchBreakRequired: valueOr(c.LunchBreakRequired, defaultLunchBreakRequired),
		LunchBreakDuration: lunch,
	}

	if c.StartLocation != nil {
		loc, err := translateLocation("constraints.startLocation", c.StartLocation)
		if err != nil {
			return routepb.RouteConstraints{}, err
		}
		out.StartLocation = loc
	}
	if c.EndLocation != nil {
		loc, err := translateLocation("constraints.endLocation", c.EndLocation)
		if err != nil {
			return routepb.RouteConstraints{}, err
		}
		out.EndLocation = loc
	}

	return out, nil
}

func translateLocation(field string, l *Location) (*routepb.Location, error) {
	if err := validateCoordinates(l.Latitude, l.Longitude); err != nil {
		err.Field = field + "." + err.Field
		return nil, err
	}
	return &routepb.Location{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}, nil
}

// minutes applies def when v is absent and rejects values the int32 wire field
// cannot carry.
func minutes(field string, v *int, def int) (int32, *ValidationError) {
	n := valueOr(v, def)
	if n < 0 || n > math.MaxInt32 {
		return 0, &ValidationError{Field: field, Message: fmt.Sprintf("%d out of range [0,%d]", n, math.MaxInt32)}
	}
	return int32(n), nil
}

// Comparisons are negated so NaN fails them.
func validateCoordinates(lat, lng float64) *ValidationError {
	if !(lat >= -90 && lat <= 90) {
		return &ValidationError{Field: "latitude", Message: fmt.Sprintf("%v out of range [-90,90]", lat)}
	}
	if !(lng >= -180 && lng <= 180) {
		return &ValidationError{Field: "longitude", Message: fmt.Sprintf("%v out of range [-180,180]", lng)}
	}
	return nil
}

// TranslateResult maps a wire results block to an OptimizationResult. A nil
// block yields an empty sequence and nil metrics.
func TranslateResult(requestID, jobID string, results *routepb.OptimizationResults, processedAt time.Time) *OptimizationResult {
	out := &OptimizationResult{
		RequestID:        requestID,
		OptimizedRouteID: jobID + "-optimized",
		Algorithm:        AlgorithmRemote,
		Sequence:         []OptimizedPOI{},
		ProcessedAt:      processedAt,
	}
	if results == nil {
		return out
	}

	distance := results.TotalDistanceKm
	minutes := int(results.TotalTimeMinutes)
	score := results.OptimizationScore
	out.TotalDistanceKm = &distance
	out.TotalTimeMinutes = &minutes
	out.OptimizationScore = &score

	for _, p := range results.OptimizedSequence {
		out.Sequence = append(out.Sequence, OptimizedPOI{
			POIID:              p.POIID,
			Name:               p.POIName,
			Latitude:           p.Latitude,
			Longitude:          p.Longitude,
			VisitOrder:         int(p.VisitOrder),
			EstimatedVisitTime: int(p.EstimatedVisitTime),
			ArrivalTime:        p.ArrivalTime,
			DepartureTime:      p.DepartureTime,
		})
	}
	return out
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
