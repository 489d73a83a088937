package sim

import "errors"

// Sentinel errors returned (wrapped) by the engine. Callers match with errors.Is.
var (
	// ErrMalformedInput marks a deflection stream containing anything other than '<' or '>'.
	ErrMalformedInput = errors.New("malformed deflection input")

	// ErrConfiguration marks a chamber/catalog combination in which objects cannot settle.
	ErrConfiguration = errors.New("invalid simulation configuration")

	// ErrArithmeticOverflow marks an extrapolation whose height would not fit in int64.
	ErrArithmeticOverflow = errors.New("extrapolated height overflows int64")

	// ErrAlreadyRun is returned when Run is called twice on the same Simulator.
	// Every run owns fresh chamber, cursors and cycle record.
	ErrAlreadyRun = errors.New("simulator already run; create a new one per target")
)
