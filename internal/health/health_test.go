package health

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func get(t *testing.T, h http.Handler, path string) (int, status) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body status
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("%s: decoding: %v", path, err)
	}
	return rec.Code, body
}

func TestProbes(t *testing.T) {
	s := New(0, 0)
	h := s.Handler()

	if code, body := get(t, h, "/healthz"); code != http.StatusOK || body.Status != "ok" {
		t.Errorf("healthz before ready = %d %+v", code, body)
	}
	if code, body := get(t, h, "/readyz"); code != http.StatusServiceUnavailable || body.Status != "not_ready" {
		t.Errorf("readyz before ready = %d %+v", code, body)
	}

	s.SetCapabilities([]string{"vision", "chat"})
	s.SetReady(true)

	code, body := get(t, h, "/readyz")
	if code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("readyz after ready = %d %+v", code, body)
	}
	if len(body.Capabilities) != 2 || body.Capabilities[0] != "chat" || body.Capabilities[1] != "vision" {
		t.Errorf("capabilities = %v", body.Capabilities)
	}
}

func TestGRPCHealth(t *testing.T) {
	s := New(0, 1)
	lis := bufconn.Listen(1 << 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeGRPC(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		t.Helper()
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		return resp.GetStatus()
	}

	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("before ready = %v", got)
	}
	s.SetReady(true)
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("after ready = %v", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("ServeGRPC: %v", err)
	}
}

func TestGRPCDisabled(t *testing.T) {
	if err := New(0, 0).ListenAndServeGRPC(context.Background()); err != nil {
		t.Errorf("disabled gRPC health returned %v", err)
	}
}
