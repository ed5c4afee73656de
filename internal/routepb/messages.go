package routepb

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

type POI struct {
	ID            int64
	Name          string
	Latitude      float64
	Longitude     float64
	Category      string
	Subcategory   string
	VisitDuration int32
	Cost          float64
	Rating        float64
	Description   string
	Accessibility bool
	ProviderID    int64
	ProviderName  string
}

type RoutePreferences struct {
	OptimizeFor           string
	MaxTotalTime          int32
	MaxTotalCost          float64
	PreferredCategories   []string
	AvoidCategories       []string
	AccessibilityRequired bool
}

type RouteConstraints struct {
	StartLocation      *Location
	EndLocation        *Location
	StartTime          string
	LunchBreakRequired bool
	LunchBreakDuration int32
}

type RouteOptimizationRequest struct {
	RouteID     string
	UserID      string
	POIs        []POI
	Preferences RoutePreferences
	Constraints RouteConstraints
}

type OptimizedPOI struct {
	POIID              int64
	POIName            string
	Latitude           float64
	Longitude          float64
	VisitOrder         int32
	EstimatedVisitTime int32
	ArrivalTime        string
	DepartureTime      string
}

type OptimizationResults struct {
	TotalDistanceKm   float64
	TotalTimeMinutes  int32
	OptimizationScore float64
	OptimizedSequence []OptimizedPOI
}

// SubmitOptimizationResponse is the initial job descriptor. Results is set only
// when the service finished the job inline.
type SubmitOptimizationResponse struct {
	Success       bool
	Status        string
	JobID         string
	Message       string
	QueuePosition int32
	RouteID       string
	Results       *OptimizationResults
}

type JobStatusResponse struct {
	JobID    string
	Status   string
	Progress int32
	Message  string
}

type JobResultResponse struct {
	Success bool
	JobID   string
	Message string
	Results *OptimizationResults
}

type HealthResponse struct {
	IsHealthy bool
	Status    string
	Version   string
}

// Marshal encodes the request as a protobuf message.
func (r *RouteOptimizationRequest) Marshal() *dynamicpb.Message {
	m := newMessage(msgRouteOptimizationRequest)
	setString(m, "route_id", r.RouteID)
	setString(m, "user_id", r.UserID)

	pois := mutableList(m, "pois")
	for _, p := range r.POIs {
		el := pois.NewElement()
		p.encode(el.Message())
		pois.Append(el)
	}

	r.Preferences.encode(mutableMessage(m, "preferences"))
	r.Constraints.encode(mutableMessage(m, "constraints"))
	return m
}

func decodeRouteOptimizationRequest(m protoreflect.Message) *RouteOptimizationRequest {
	r := &RouteOptimizationRequest{
		RouteID: getString(m, "route_id"),
		UserID:  getString(m, "user_id"),
	}

	pois := getList(m, "pois")
	r.POIs = make([]POI, 0, pois.Len())
	for i := 0; i < pois.Len(); i++ {
		r.POIs = append(r.POIs, decodePOI(pois.Get(i).Message()))
	}

	if pm, ok := getMessage(m, "preferences"); ok {
		r.Preferences = decodePreferences(pm)
	}
	if cm, ok := getMessage(m, "constraints"); ok {
		r.Constraints = decodeConstraints(cm)
	}
	return r
}

func (p POI) encode(m protoreflect.Message) {
	setInt64(m, "id", p.ID)
	setString(m, "name", p.Name)
	setDouble(m, "latitude", p.Latitude)
	setDouble(m, "longitude", p.Longitude)
	setString(m, "category", p.Category)
	setString(m, "subcategory", p.Subcategory)
	setInt32(m, "visit_duration", p.VisitDuration)
	setDouble(m, "cost", p.Cost)
	setDouble(m, "rating", p.Rating)
	setString(m, "description", p.Description)
	setBool(m, "accessibility", p.Accessibility)
	setInt64(m, "provider_id", p.ProviderID)
	setString(m, "provider_name", p.ProviderName)
}

func decodePOI(m protoreflect.Message) POI {
	return POI{
		ID:            getInt64(m, "id"),
		Name:          getString(m, "name"),
		Latitude:      getDouble(m, "latitude"),
		Longitude:     getDouble(m, "longitude"),
		Category:      getString(m, "category"),
		Subcategory:   getString(m, "subcategory"),
		VisitDuration: getInt32(m, "visit_duration"),
		Cost:          getDouble(m, "cost"),
		Rating:        getDouble(m, "rating"),
		Description:   getString(m, "description"),
		Accessibility: getBool(m, "accessibility"),
		ProviderID:    getInt64(m, "provider_id"),
		ProviderName:  getString(m, "provider_name"),
	}
}

func (p RoutePreferences) encode(m protoreflect.Message) {
	setString(m, "optimize_for", p.OptimizeFor)
	setInt32(m, "max_total_time", p.MaxTotalTime)
	setDouble(m, "max_total_cost", p.MaxTotalCost)
	setStrings(m, "preferred_categories", p.PreferredCategories)
	setStrings(m, "avoid_categories", p.AvoidCategories)
	setBool(m, "accessibility_required", p.AccessibilityRequired)
}

func decodePreferences(m protoreflect.Message) RoutePreferences {
	return RoutePreferences{
		OptimizeFor:           getString(m, "optimize_for"),
		MaxTotalTime:          getInt32(m, "max_total_time"),
		MaxTotalCost:          getDouble(m, "max_total_cost"),
		PreferredCategories:   getStrings(m, "preferred_categories"),
		AvoidCategories:       getStrings(m, "avoid_categories"),
		AccessibilityRequired: getBool(m, "accessibility_required"),
	}
}

func (c RouteConstraints) encode(m protoreflect.Message) {
	if c.StartLocation != nil {
		c.StartLocation.encode(mutableMessage(m, "start_location"))
	}
	if c.EndLocation != nil {
		c.EndLocation.encode(mutableMessage(m, "end_location"))
	}
	setString(m, "start_time", c.StartTime)
	setBool(m, "lunch_break_required", c.LunchBreakRequired)
	setInt32(m, "lunch_break_duration", c.LunchBreakDuration)
}

func decodeConstraints(m protoreflect.Message) RouteConstraints {
	c := RouteConstraints{
		StartTime:          getString(m, "start_time"),
		LunchBreakRequired: getBool(m, "lunch_break_required"),
		LunchBreakDuration: getInt32(m, "lunch_break_duration"),
	}
	if lm, ok := getMessage(m, "start_location"); ok {
		loc := decodeLocation(lm)
		c.StartLocation = &loc
	}
	if lm, ok := getMessage(m, "end_location"); ok {
		loc := decodeLocation(lm)
		c.EndLocation = &loc
	}
	return c
}

func (l Location) encode(m protoreflect.Message) {
	setDouble(m, "latitude", l.Latitude)
	setDouble(m, "longitude", l.Longitude)
	setString(m, "address", l.Address)
}

func decodeLocation(m protoreflect.Message) Location {
	return Location{
		Latitude:  getDouble(m, "latitude"),
		Longitude: getDouble(m, "longitude"),
		Address:   getString(m, "address"),
	}
}

func (r *OptimizationResults) encode(m protoreflect.Message) {
	setDouble(m, "total_distance_km", r.TotalDistanceKm)
	setInt32(m, "total_time_minutes", r.TotalTimeMinutes)
	setDouble(m, "optimization_score", r.OptimizationScore)

	seq := mutableList(m, "optimized_sequence")
	for _, p := range r.OptimizedSequence {
		el := seq.NewElement()
		em := el.Message()
		setInt64(em, "poi_id", p.POIID)
		setString(em, "poi_name", p.POIName)
		setDouble(em, "latitude", p.Latitude)
		setDouble(em, "longitude", p.Longitude)
		setInt32(em, "visit_order", p.VisitOrder)
		setInt32(em, "estimated_visit_time", p.EstimatedVisitTime)
		setString(em, "arrival_time", p.ArrivalTime)
		setString(em, "departure_time", p.DepartureTime)
		seq.Append(el)
	}
}

// decodeResults returns nil when the results block is absent.
func decodeResults(parent protoreflect.Message, name string) *OptimizationResults {
	m, ok := getMessage(parent, name)
	if !ok {
		return nil
	}

	r := &OptimizationResults{
		TotalDistanceKm:   getDouble(m, "total_distance_km"),
		TotalTimeMinutes:  getInt32(m, "total_time_minutes"),
		OptimizationScore: getDouble(m, "optimization_score"),
	}

	seq := getList(m, "optimized_sequence")
	r.OptimizedSequence = make([]OptimizedPOI, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		em := seq.Get(i).Message()
		r.OptimizedSequence = append(r.OptimizedSequence, OptimizedPOI{
			POIID:              getInt64(em, "poi_id"),
			POIName:            getString(em, "poi_name"),
			Latitude:           getDouble(em, "latitude"),
			Longitude:          getDouble(em, "longitude"),
			VisitOrder:         getInt32(em, "visit_order"),
			EstimatedVisitTime: getInt32(em, "estimated_visit_time"),
			ArrivalTime:        getString(em, "arrival_time"),
			DepartureTime:      getString(em, "departure_time"),
		})
	}
	return r
}

func (r *SubmitOptimizationResponse) marshal() *dynamicpb.Message {
	m := newMessage(msgSubmitOptimizationResponse)
	setBool(m, "success", r.Success)
	setString(m, "status", r.Status)
	setString(m, "job_id", r.JobID)
	setString(m, "message", r.Message)
	setInt32(m, "queue_position", r.QueuePosition)
	setString(m, "route_id", r.RouteID)
	if r.Results != nil {
		r.Results.encode(mutableMessage(m, "results"))
	}
	return m
}

func decodeSubmitOptimizationResponse(m protoreflect.Message) *SubmitOptimizationResponse {
	return &SubmitOptimizationResponse{
		Success:       getBool(m, "success"),
		Status:        getString(m, "status"),
		JobID:         getString(m, "job_id"),
		Message:       getString(m, "message"),
		QueuePosition: getInt32(m, "queue_position"),
		RouteID:       getString(m, "route_id"),
		Results:       decodeResults(m, "results"),
	}
}

func (r *JobStatusResponse) marshal() *dynamicpb.Message {
	m := newMessage(msgJobStatusResponse)
	setString(m, "job_id", r.JobID)
	setString(m, "status", r.Status)
	setInt32(m, "progress", r.Progress)
	setString(m, "message", r.Message)
	return m
}

func decodeJobStatusResponse(m protoreflect.Message) *JobStatusResponse {
	return &JobStatusResponse{
		JobID:    getString(m, "job_id"),
		Status:   getString(m, "status"),
		Progress: getInt32(m, "progress"),
		Message:  getString(m, "message"),
	}
}

func (r *JobResultResponse) marshal() *dynamicpb.Message {
	m := newMessage(msgJobResultResponse)
	setBool(m, "success", r.Success)
	setString(m, "job_id", r.JobID)
	setString(m, "message", r.Message)
	if r.Results != nil {
		r.Results.encode(mutableMessage(m, "results"))
	}
	return m
}

func decodeJobResultResponse(m protoreflect.Message) *JobResultResponse {
	return &JobResultResponse{
		Success: getBool(m, "success"),
		JobID:   getString(m, "job_id"),
		Message: getString(m, "message"),
		Results: decodeResults(m, "results"),
	}
}

func (r *HealthResponse) marshal() *dynamicpb.Message {
	m := newMessage(msgHealthResponse)
	setBool(m, "is_healthy", r.IsHealthy)
	setString(m, "status", r.Status)
	setString(m, "version", r.Version)
	return m
}

func decodeHealthResponse(m protoreflect.Message) *HealthResponse {
	return &HealthResponse{
		IsHealthy: getBool(m, "is_healthy"),
		Status:    getString(m, "status"),
		Version:   getString(m, "version"),
	}
}

func jobIDMessage(name, jobID string) *dynamicpb.Message {
	m := newMessage(name)
	setString(m, "job_id", jobID)
	return m
}

func healthRequest(serviceName string) *dynamicpb.Message {
	m := newMessage(msgHealthRequest)
	setString(m, "service_name", serviceName)
	return m
}
