// Package deps implements the dependency comparator used by effects, memos
// and the state setter bail-out.
//
// A dependency tuple is compared positionally and shallowly:
//
//	deps.On(userID, filter)   // re-run when either changes
//	deps.Once()               // run once over the instance lifetime
//	deps.Always               // run after every commit
//
// Composite values compare by reference, not by content. Mutating a map in
// place and passing it again is "the same" dependency; build a new value
// when the change must be observed.
package deps
