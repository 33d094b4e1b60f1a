// Package badssl checks how a TLS client stack treats the endpoints of the badssl.com test suite.
//
// Each [Fixture] pairs a target with a [Category] describing whether a secured connection to it
// should succeed. A [Connector] makes one connection attempt per fixture and reports an [Outcome];
// the oracle in [Evaluate] decides whether that outcome is consistent with the category.
//
// There are three connectors the caller may use:
//   - The [HTTPConnector] fetches the target URL with an [http.Client].
//   - The [SocketConnector] dials TCP and performs a TLS handshake on the raw socket.
//   - The [GRPCConnector] opens a gRPC channel with TLS transport credentials.
//
// A [Suite] runs a fixture table through one connector, either sequentially or with every attempt
// in flight at once. The suites reach real hosts on the internet and are therefore opt-in: see the
// remotenetwork build tag on the package tests and the cmd/badssl command.
package badssl
