// Package protoerr holds the sentinel error kinds so callers can
// distinguish recoverable protocol anomalies (StateIdMismatch,
// UnknownItemForPlacement, UnbreakableBlock, ChunkGenerationFailed,
// ConcurrentSessionReplaced) from ones that close the connection
// (Malformed, UnexpectedPacket, SendFailed).
package protoerr

import "errors"

var (
	// ErrMalformed is returned by the codec on a structurally invalid frame.
	ErrMalformed = errors.New("malformed packet")

	// ErrUnexpectedPacket is returned by the router when a packet id is not
	// legal in the connection's current phase.
	ErrUnexpectedPacket = errors.New("unexpected packet for current state")

	// ErrStateIDMismatch names the case where a click's state_id does not
	// match the server's. The inventory engine reports it as
	// ClickResult.Resynced rather than returning this error; the click is
	// discarded and a full resync is sent instead of closing the connection.
	ErrStateIDMismatch = errors.New("inventory state id mismatch")

	// ErrUnknownItemForPlacement means UseItemOn referenced an item with no
	// registry mapping to a block state; placement is a no-op.
	ErrUnknownItemForPlacement = errors.New("no block state mapped for item")

	// ErrUnbreakableBlock means StartSession targeted a block that is
	// unknown to the registry, not diggable, or has no hardness; no mining
	// session is started.
	ErrUnbreakableBlock = errors.New("block is unbreakable")

	// ErrSendFailed marks a connection's writer as failed; dependents
	// (streamer, breaking scheduler, visibility manager) observe it via
	// cancellation rather than retrying the write.
	ErrSendFailed = errors.New("send failed")

	// ErrChunkGenerationFailed means the WorldStore could not produce a
	// chunk payload; the streamer skips it and retries on the next update.
	ErrChunkGenerationFailed = errors.New("chunk generation failed")

	// ErrConcurrentSessionReplaced is not a failure: it names the case of a
	// BlockBreakingSession superseded by a new target. The scheduler marks
	// the superseded session cancelled and does not return this value.
	ErrConcurrentSessionReplaced = errors.New("breaking session replaced by a new target")
)
