// Package chain composes functions and channels into running pipelines.
//
// Every composition step starts at most one stage and returns something the
// next step can build on:
// - Then: channel-like + filter function -> *stage.Filter with a new channel
// - Compose: source function + filter function -> new source function
// - Generate: source function -> *stage.Source filling a new channel
// - To: channel-like + sink function -> terminal *stage.Sink
// - Connect: producer + consumer -> *stage.Pipeline moving values as they are
//
// Capacity and overflow policy come from the leftmost channel and are kept
// for every channel allocated further down the chain.
//
//	ch := channel.MustNew[int](channel.WithCapacity(128))
//	times10, _ := chain.Then(ch, func(v int) int { return v * 10 })
//	minus1, _ := chain.Then(times10, func(v int) int { return v - 1 })
//	minus1.Push(10)
//	v, _ := minus1.Take() // 99
//	minus1.Close()
package chain
