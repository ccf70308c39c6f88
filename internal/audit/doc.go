// Package audit implements async lifecycle event dispatching for the guard.
//
// # Components
//
//   - [Sink] — interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher] — buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event] — structured record with timestamp, type, guard name, user, session, metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which
// events to emit; that responsibility belongs to the guard. Emission is
// optional instrumentation: authentication outcomes are identical with or
// without a sink attached.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import guardkit or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
