package simulation

import (
	"errors"

	"kavak-credito/pkg/amortization"
)

var (
	// ErrInvalidArgument marks malformed or out-of-policy input. It is the
	// same sentinel the amortization calculator returns.
	ErrInvalidArgument    = amortization.ErrInvalidArgument
	ErrPolicyNotFound     = errors.New("policy not found")
	ErrSimulationNotFound = errors.New("simulation not found")
	ErrScenarioNotFound   = errors.New("scenario not found")
)
