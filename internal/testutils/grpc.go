package testutils

import (
	"context"
	"crypto/tls"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/stats"
)

// GrpcStatsHandler traces server connection events.
type GrpcStatsHandler struct {
	t testing.TB
}

func (h *GrpcStatsHandler) TagConn(ctx context.Context, info *stats.ConnTagInfo) context.Context {
	h.t.Logf("[Server] ConnTagInfo: %+v", info)
	return ctx
}

func (h *GrpcStatsHandler) HandleConn(ctx context.Context, s stats.ConnStats) {
	switch s.(type) {
	case *stats.ConnBegin:
		h.t.Logf("[Server] ConnBegin: %+v", s)
	case *stats.ConnEnd:
		h.t.Logf("[Server] ConnEnd: %+v", s)
	}
}

func (h *GrpcStatsHandler) TagRPC(ctx context.Context, s *stats.RPCTagInfo) context.Context {
	return ctx
}

func (h *GrpcStatsHandler) HandleRPC(ctx context.Context, s stats.RPCStats) {}

// NewGrpcTestServer starts a gRPC server presenting cert and serving the standard health
// service. If withHealth is false the health service is not registered and every check answers
// Unimplemented. It returns the listening host and port.
func NewGrpcTestServer(t testing.TB, trace bool, cert tls.Certificate, withHealth bool) (string, int) {
	t.Helper()
	tb := t
	if !trace {
		tb = noopTB{t}
	}
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	s := grpc.NewServer(
		grpc.Creds(credentials.NewTLS(&tls.Config{
			Certificates: []tls.Certificate{cert},
			NextProtos:   []string{"h2"},
		})),
		grpc.StatsHandler(&GrpcStatsHandler{t: tb}),
	)
	if withHealth {
		healthpb.RegisterHealthServer(s, health.NewServer())
	}
	go s.Serve(lis)
	t.Cleanup(func() {
		s.Stop()
		lis.Close()
	})
	addr := lis.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}
