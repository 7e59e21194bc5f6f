// Package lessons holds the tutorial components the CLI runs: a counter,
// keyed and unkeyed todo lists, a theme context, a clock driven by a timer
// effect and a user profile loaded by a fetch effect.
//
// Each lesson shows one behavior of the runtime:
//
//	counter       updates in one event coalesce; a captured value is stale
//	todo          keys keep state with items; positions do not
//	theme         context reaches readers below components that bail out
//	clock         an effect owns a goroutine and stops it in its cleanup
//	user          an effect keyed on an id drops responses for an old id
package lessons
