// Package clock provides the time source for code generation.
//
// Code that needs "now" depends on Clocker so tests and the CLI can pin the
// instant codes are computed for.
package clock
