package repository

// Repository lifecycle states. A repository starts Uninitialized, moves
// through Seeding while EnsureSeedData runs, and stays Ready afterwards;
// EnsureSeedData on a Ready repository is a no-op.
const (
	stateUninitialized int32 = iota
	stateSeeding
	stateReady
)
