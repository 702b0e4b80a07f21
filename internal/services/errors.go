package services

import "errors"

// Domain errors surfaced to the request boundary. Handlers map these to the
// 400/404 side of the error taxonomy; anything else is a 500.
var (
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrStakeOutOfRange    = errors.New("stake is outside the allowed range")
	ErrEmptyBatch         = errors.New("no selections submitted")
	ErrNoActiveRound      = errors.New("no round is currently open for betting")
	ErrWindowLocked       = errors.New("betting window is locked")
	ErrCancelWindowClosed = errors.New("cancellation window has closed")
	ErrNotCancellable     = errors.New("selection can no longer be cancelled")
	ErrRoundCompleted     = errors.New("round is already completed")
	ErrRoundOverlap       = errors.New("an active round already covers this window")
	ErrInvalidWindow      = errors.New("round end time must be after start time")
	ErrAlreadyDecided     = errors.New("withdrawal has already been decided")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBlocked     = errors.New("account is blocked")
)
