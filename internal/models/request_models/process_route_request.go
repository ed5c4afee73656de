package request_models

import "routeprocessing/internal/optimization"

type ProcessRouteRequest struct {
	RouteID     string            `json:"route_id" binding:"required"`
	UserID      string            `json:"user_id"`
	POIs        []RoutePOI        `json:"pois" binding:"required,min=1,dive"`
	Preferences *RoutePreferences `json:"preferences"`
	Constraints *RouteConstraints `json:"constraints"`
}

type RoutePOI struct {
	PoiID         int64    `json:"poi_id" binding:"required,gt=0"`
	Name          string   `json:"name"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	VisitDuration *int     `json:"visit_duration" binding:"omitempty,min=0,max=2147483647"`
	Cost          *float64 `json:"cost" binding:"omitempty,min=0"`
	Rating        *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Description   string   `json:"description"`
	Accessibility *bool    `json:"accessibility"`
	ProviderID    *int64   `json:"provider_id"`
	ProviderName  string   `json:"provider_name"`
}

type RoutePreferences struct {
	OptimizeFor           string   `json:"optimize_for" binding:"omitempty,oneof=distance time cost experience"`
	MaxTotalTime          *int     `json:"max_total_time" binding:"omitempty,min=0,max=2147483647"`
	MaxTotalCost          *float64 `json:"max_total_cost" binding:"omitempty,min=0"`
	PreferredCategories   []string `json:"preferred_categories"`
	AvoidCategories       []string `json:"avoid_categories"`
	AccessibilityRequired *bool    `json:"accessibility_required"`
}

type RouteConstraints struct {
	StartLocation      *Location `json:"start_location"`
	EndLocation        *Location `json:"end_location"`
	StartTime          string    `json:"start_time"`
	LunchBreakRequired *bool     `json:"lunch_break_required"`
	LunchBreakDuration *int      `json:"lunch_break_duration" binding:"omitempty,min=0,max=2147483647"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// ToDomain converts the payload; absent fields stay nil so defaults apply later.
func (r *ProcessRouteRequest) ToDomain() *optimization.OptimizationRequest {
	out := &optimization.OptimizationRequest{
		RouteID: r.RouteID,
		UserID:  r.UserID,
		POIs:    make([]optimization.POI, 0, len(r.POIs)),
	}

	for _, p := range r.POIs {
		out.POIs = append(out.POIs, optimization.POI{
			ID:                   p.PoiID,
			Name:                 p.Name,
			Latitude:             p.Latitude,
			Longitude:            p.Longitude,
			Category:             p.Category,
			Subcategory:          p.Subcategory,
			VisitDurationMinutes: p.VisitDuration,
			Cost:                 p.Cost,
			Rating:               p.Rating,
			Description:          p.Description,
			Accessibility:        p.Accessibility,
			ProviderID:           p.ProviderID,
			ProviderName:         p.ProviderName,
		})
	}

	if p := r.Preferences; p != nil {
		out.Preferences = &optimization.Preferences{
			OptimizeFor:           p.OptimizeFor,
			MaxTotalTimeMinutes:   p.MaxTotalTime,
			MaxTotalCostUnits:     p.MaxTotalCost,
			PreferredCategories:   p.PreferredCategories,
			AvoidCategories:       p.AvoidCategories,
			AccessibilityRequired: p.AccessibilityRequired,
		}
	}

	if c := r.Constraints; c != nil {
		out.Constraints = &optimization.Constraints{
			StartLocation:             c.StartLocation.toDomain(),
			EndLocation:               c.EndLocation.toDomain(),
			StartTime:                 c.StartTime,
			LunchBreakRequired:        c.LunchBreakRequired,
			LunchBreakDurationMinutes: c.LunchBreakDuration,
		}
	}

	return out
}

func (l *Location) toDomain() *optimization.Location {
	if l == nil {
		return nil
	}
	return &optimization.Location{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}
}
