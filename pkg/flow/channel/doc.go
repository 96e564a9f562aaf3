// Package channel implements Channel[T], a fixed-capacity, closable queue
// shared between one writer and one reader running on different goroutines.
//
// A full channel either blocks the writer (WaitForSpace) or replaces the
// most recently added value (OverwriteLast). Closing is one way: a closed
// channel accepts nothing, but the values already queued can still be taken
// in order before Take starts reporting that the channel is drained.
//
// Key operations:
// - New/MustNew: create a channel from options (WithCapacity, WithPolicy)
// - Add/Push/AddContext: insert values according to the overflow policy
// - Take/TakeContext: remove the oldest value, blocking while empty
// - Close/Closed/Size: lifecycle and introspection
package channel
