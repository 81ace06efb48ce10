package types

import "errors"

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the query. An empty query
	// returns every entity in the table.
	Fetch(q Query) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Entity method errors.
var (
	ErrInvalidState      = errors.New("invalid state value")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidKind       = errors.New("invalid entity kind")
	ErrInvalidGoalType   = errors.New("invalid goal type")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidRank       = errors.New("rank must be between 1 and 10")
	ErrInvalidCompletion = errors.New("completion must be between 0 and 1")
	ErrInvalidConfidence = errors.New("invalid deadline confidence")
	ErrAlreadyComplete   = errors.New("already complete for this period")
	ErrNoRepsLeft        = errors.New("no reps left")
)
