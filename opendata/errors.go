package opendata

import "errors"

var (
	// ErrStatus is returned when the server answers with a non-2xx
	// status. Match with errors.Is; the message carries the code.
	ErrStatus = errors.New("opendata: unexpected status")

	// ErrCircuitOpen is returned when the circuit breaker rejects a
	// request before it reaches the network.
	ErrCircuitOpen = errors.New("opendata: circuit open")
)
