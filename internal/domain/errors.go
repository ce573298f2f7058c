package domain

import "errors"

// Rule errors are rejection signals returned to the submitting seat. They
// never mutate state and never abort a match.
var (
	ErrOutOfTurn           = errors.New("acting seat is not on turn")
	ErrCombinationMismatch = errors.New("combination does not match the led type and length")
	ErrDoesNotBeat         = errors.New("combination does not beat the current top play")
	ErrNotInHand           = errors.New("card is not in the acting seat's hand")
	ErrInvalidShape        = errors.New("cards do not form a recognized combination")
	ErrIncompleteExchange  = errors.New("exchange must pass exactly one card to each other seat")
	ErrCallNotAllowed      = errors.New("call window for this seat is closed")
	ErrMatchAlreadyDecided = errors.New("match is already decided")
	ErrWishUnmet           = errors.New("active wish must be honored when a legal play can satisfy it")
	ErrInvalidWish         = errors.New("wish must accompany the Mahjong and name a rank from 2 to ace")
	ErrMustLead            = errors.New("trick leader must play, not pass")
	ErrGiftPending         = errors.New("dragon trick must be given away first")
	ErrInvalidGiftTarget   = errors.New("dragon pile must go to an opponent seat")
	ErrWrongPhase          = errors.New("action not valid in the current phase")
)
