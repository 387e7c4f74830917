// Package reconcile decides how local and remote entry sets converge.
//
// Reconcile turns a full remote snapshot and a full local snapshot into an
// ordered list of operations for the caller to apply. MergeOrder combines two
// manual orderings of the same entries. Both are pure functions; persistence
// and transport belong to the caller.
package reconcile
