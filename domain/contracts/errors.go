package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrJobNotFound occurs when an update or read names an unknown job id
	ErrJobNotFound = errors.New("job not found")

	// ErrEventNotFound occurs when a read names an unknown event id
	ErrEventNotFound = errors.New("event not found")

	// ErrAthleteNotFound occurs when a query names an athlete with no
	// recorded results
	ErrAthleteNotFound = errors.New("athlete not found")
)
