package routepb

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
)

type recordingServer struct {
	lastRequest *RouteOptimizationRequest
	lastJobID   string
	lastService string
}

func (s *recordingServer) SubmitOptimization(_ context.Context, req *RouteOptimizationRequest) (*SubmitOptimizationResponse, error) {
	s.lastRequest = req
	return &SubmitOptimizationResponse{
		Success:       true,
		Status:        "QUEUED",
		JobID:         "job-1",
		Message:       "queued",
		QueuePosition: 2,
		RouteID:       req.RouteID,
	}, nil
}

func (s *recordingServer) GetJobStatus(_ context.Context, jobID string) (*JobStatusResponse, error) {
	s.lastJobID = jobID
	if jobID == "missing" {
		return nil, status.Error(codes.NotFound, "job not found")
	}
	return &JobStatusResponse{JobID: jobID, Status: "PROCESSING", Progress: 40, Message: "working"}, nil
}

func (s *recordingServer) GetJobResult(_ context.Context, jobID string) (*JobResultResponse, error) {
	return &JobResultResponse{
		Success: true,
		JobID:   jobID,
		Message: "done",
		Results: &OptimizationResults{
			TotalDistanceKm:   12.5,
			TotalTimeMinutes:  240,
			OptimizationScore: 0.87,
			OptimizedSequence: []OptimizedPOI{
				{POIID: 2, POIName: "Museo", Latitude: -12.05, Longitude: -77.04, VisitOrder: 1, EstimatedVisitTime: 90, ArrivalTime: "08:30", DepartureTime: "10:00"},
				{POIID: 1, POIName: "Plaza", Latitude: -12.04, Longitude: -77.03, VisitOrder: 2, EstimatedVisitTime: 60, ArrivalTime: "10:15", DepartureTime: "11:15"},
			},
		},
	}, nil
}

func (s *recordingServer) HealthCheck(_ context.Context, serviceName string) (*HealthResponse, error) {
	s.lastService = serviceName
	return &HealthResponse{IsHealthy: true, Status: "SERVING", Version: "1.2.0"}, nil
}

func startServer(t *testing.T, srv OptimizationServer) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterOptimizationServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func sampleRequest() *RouteOptimizationRequest {
	return &RouteOptimizationRequest{
		RouteID: "route-1",
		UserID:  "user-9",
		POIs: []POI{
			{ID: 1, Name: "Plaza", Latitude: -12.04, Longitude: -77.03, Category: "historic", VisitDuration: 60, Rating: 4, Accessibility: true},
			{ID: 2, Name: "Museo", Latitude: -12.05, Longitude: -77.04, Category: "museum", VisitDuration: 90, Cost: 15, Rating: 4.5, ProviderID: 7, ProviderName: "City"},
		},
		Preferences: RoutePreferences{
			OptimizeFor:         "time",
			MaxTotalTime:        480,
			MaxTotalCost:        500,
			PreferredCategories: []string{"museum"},
			AvoidCategories:     []string{"nightlife"},
		},
		Constraints: RouteConstraints{
			StartLocation:      &Location{Latitude: -12.0, Longitude: -77.0, Address: "Hotel"},
			StartTime:          "08:00",
			LunchBreakRequired: true,
			LunchBreakDuration: 60,
		},
	}
}

func TestClient_SubmitOptimization_RoundTrip(t *testing.T) {
	srv := &recordingServer{}
	client := startServer(t, srv)

	resp, err := client.SubmitOptimization(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "QUEUED", resp.Status)
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, int32(2), resp.QueuePosition)
	assert.Equal(t, "route-1", resp.RouteID)
	assert.Nil(t, resp.Results)

	require.NotNil(t, srv.lastRequest)
	assert.Equal(t, sampleRequest(), srv.lastRequest)
}

func TestClient_GetJobStatus(t *testing.T) {
	srv := &recordingServer{}
	client := startServer(t, srv)

	resp, err := client.GetJobStatus(context.Background(), "job-7")
	require.NoError(t, err)
	assert.Equal(t, "job-7", srv.lastJobID)
	assert.Equal(t, &JobStatusResponse{JobID: "job-7", Status: "PROCESSING", Progress: 40, Message: "working"}, resp)
}

func TestClient_GetJobStatus_PropagatesStatusError(t *testing.T) {
	client := startServer(t, &recordingServer{})

	_, err := client.GetJobStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestClient_GetJobResult(t *testing.T) {
	client := startServer(t, &recordingServer{})

	resp, err := client.GetJobResult(context.Background(), "job-3")
	require.NoError(t, err)
	require.NotNil(t, resp.Results)
	assert.Equal(t, "job-3", resp.JobID)
	assert.InDelta(t, 12.5, resp.Results.TotalDistanceKm, 1e-9)
	assert.Equal(t, int32(240), resp.Results.TotalTimeMinutes)
	require.Len(t, resp.Results.OptimizedSequence, 2)
	assert.Equal(t, int64(2), resp.Results.OptimizedSequence[0].POIID)
	assert.Equal(t, "10:15", resp.Results.OptimizedSequence[1].ArrivalTime)
}

func TestClient_HealthCheck(t *testing.T) {
	srv := &recordingServer{}
	client := startServer(t, srv)

	resp, err := client.HealthCheck(context.Background(), "route-processing-service")
	require.NoError(t, err)
	assert.Equal(t, "route-processing-service", srv.lastService)
	assert.Equal(t, &HealthResponse{IsHealthy: true, Status: "SERVING", Version: "1.2.0"}, resp)
}

func TestClient_ServerUnavailable(t *testing.T) {
	lis := bufconn.Listen(1 << 10)
	require.NoError(t, lis.Close())

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = NewClient(conn).HealthCheck(ctx, "svc")
	require.Error(t, err)
	assert.NotEqual(t, codes.OK, status.Code(err))
}

func TestRequestMarshal_Deterministic(t *testing.T) {
	opts := proto.MarshalOptions{Deterministic: true}

	first, err := opts.Marshal(sampleRequest().Marshal())
	require.NoError(t, err)
	second, err := opts.Marshal(sampleRequest().Marshal())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRequestMarshal_DecodesBack(t *testing.T) {
	req := sampleRequest()
	assert.Equal(t, req, decodeRouteOptimizationRequest(req.Marshal()))
}
