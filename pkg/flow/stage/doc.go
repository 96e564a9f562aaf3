// Package stage provides the four stage roles of a pipeline. Every stage owns
// one worker goroutine and the channel it writes to:
//
// - Source: calls a generator and fills its output channel
// - Filter: takes from its input, applies a function, fills its output
// - Sink: takes from its input and hands values to a function
// - Pipeline: moves values unchanged from a producer to a consumer
//
// Source and Filter behave like channels themselves (Add, Take, Closed,
// Close, Size, Push), so a stage can be the input of the next one.
//
// Close is the teardown of a stage: it closes the input, then the output,
// then waits for the goroutine. A stage must not be closed from inside its
// own stage function.
package stage
