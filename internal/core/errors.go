// Package core defines the fundamental types and errors for Kinship.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Storage errors
	ErrDatabaseNotFound = errors.New("database not found")
	ErrMigrationFailed  = errors.New("migration failed")
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateRecord  = errors.New("duplicate record")

	// Relationship errors
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrInvalidTier          = errors.New("invalid tier")

	// Interaction errors
	ErrInteractionNotFound = errors.New("interaction not found")
	ErrNoParticipants      = errors.New("interaction has no participants")
	ErrInvalidCategory     = errors.New("invalid interaction category")
	ErrInvalidVibe         = errors.New("vibe must be between 1 and 5")

	// Engine errors
	ErrNoRules       = errors.New("no rules registered")
	ErrRuleFailed    = errors.New("rule evaluation failed")
	ErrBatchTimedOut = errors.New("suggestion batch timed out")

	// Cooldown errors
	ErrCooldownUnavailable = errors.New("cooldown registry unavailable")
	ErrNotDismissible      = errors.New("suggestion is not dismissible")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
