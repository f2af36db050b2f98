// Package gcloudtest runs in-memory gRPC fakes of Google Cloud services for
// adapter tests.
package gcloudtest

import (
	"context"
	"net"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1 << 20

// Serve starts a gRPC server over an in-memory listener, lets register attach
// the fake service, and returns client options that dial it. Everything is
// torn down with the test.
func Serve(t *testing.T, register func(*grpc.Server)) []option.ClientOption {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	register(srv)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dialing bufconn: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
	})

	return []option.ClientOption{option.WithGRPCConn(conn)}
}
