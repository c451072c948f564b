package gen

import "errors"

// Fatal generation errors. Everything else the pipeline encounters
// (missing budgets, absent multipliers, stat-sheet refusals) degrades to
// a default instead of failing the call.
var (
	ErrFamilyNotFound    = errors.New("family not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrOverlayNotFound   = errors.New("overlay not found")
	ErrOverlayNotAllowed = errors.New("overlay not allowed")
)
