// Package monitor runs the polling loop that drives a ladder decoder: it
// reads a source at a fixed interval, reports symbol changes and held
// buttons to callbacks, and counts presses on transitions.
package monitor
