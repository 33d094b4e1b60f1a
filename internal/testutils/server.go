package testutils

import (
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"
)

// TestServer is a local HTTP(S) server with tracing.
type TestServer struct {
	*httptest.Server
	URL  string
	Host string
	Port int
}

// TestListener wraps net.Listener to trace accept events
type TestListener struct {
	net.Listener
	t testing.TB
}

func (l *TestListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		l.t.Logf("[Server] Accept error: %v", err)
		return conn, err
	}
	l.t.Logf("[Server] Accepted connection from: %v", conn.RemoteAddr())
	return conn, nil
}

type noopTB struct {
	testing.TB
}

func (noopTB) Logf(format string, args ...any) {}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]string{"message": "Hello, from a badssl test server!"}
		json.NewEncoder(w).Encode(response)
	})
	return mux
}

// tracingHandler wraps an http.Handler with tracing.
func tracingHandler(trace testing.TB, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace.Logf("[Server] Handling %s request to %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		start := time.Now()
		handler.ServeHTTP(w, r)
		trace.Logf("[Server] Completed %s %s in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func newTestServer(t testing.TB, trace bool, cert *tls.Certificate) *TestServer {
	t.Helper()
	tb := t
	if !trace {
		tb = noopTB{t}
	}
	server := httptest.NewUnstartedServer(tracingHandler(tb, newMux()))
	server.Listener = &TestListener{Listener: server.Listener, t: tb}
	server.Config.ReadTimeout = 10 * time.Second
	server.Config.WriteTimeout = 10 * time.Second
	if cert == nil {
		server.Start()
	} else {
		server.TLS = &tls.Config{
			Certificates: []tls.Certificate{*cert},
			GetConfigForClient: func(hello *tls.ClientHelloInfo) (*tls.Config, error) {
				tb.Logf("[Server] TLS ClientHello from %v: Versions=%x ServerName=%s",
					hello.Conn.RemoteAddr(), hello.SupportedVersions, hello.ServerName)
				return nil, nil
			},
		}
		server.StartTLS()
	}
	t.Cleanup(server.Close)
	return wrap(t, server)
}

func wrap(t testing.TB, server *httptest.Server) *TestServer {
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return &TestServer{Server: server, URL: server.URL, Host: u.Hostname(), Port: port}
}

// NewServer starts an HTTPS server presenting cert.
func NewServer(t testing.TB, trace bool, cert tls.Certificate) *TestServer {
	return newTestServer(t, trace, &cert)
}

// NewPlainServer starts an HTTP server without TLS.
func NewPlainServer(t testing.TB, trace bool) *TestServer {
	return newTestServer(t, trace, nil)
}

// NewHangUpServer accepts TCP connections and closes them before any TLS record is sent. It
// returns the listening host and port.
func NewHangUpServer(t testing.TB) (string, int) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { lis.Close() })
	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	addr := lis.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

// NewCloseAfterHandshakeServer completes the TLS handshake with cert on every connection and
// then closes it without reading a request. It returns the listening host and port.
func NewCloseAfterHandshakeServer(t testing.TB, cert tls.Certificate) (string, int) {
	t.Helper()
	lis, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { lis.Close() })
	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			conn.(*tls.Conn).Handshake()
			conn.Close()
		}
	}()
	addr := lis.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}
