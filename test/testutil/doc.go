// Package testutil provides helpers for restream integration tests.
//
// The helpers start real infrastructure inside the test process:
//
//   - StartEmbeddedNATS: Starts an embedded NATS server with JetStream enabled
//   - CreateStreamConsumer: Creates a stream and an explicit-ack consumer on it
//
// Servers and connections are registered with t.Cleanup and torn down when
// the test completes.
package testutil
