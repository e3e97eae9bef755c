package engine

import "errors"

var (
	ErrNotActive         = errors.New("game is not active")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrAlreadyRolled     = errors.New("dice already rolled this turn")
	ErrPendingDecision   = errors.New("a decision is pending")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrAlreadyOwned      = errors.New("property already owned")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrRoomFull          = errors.New("room is full")
	ErrAlreadyStarted    = errors.New("game already started")
	ErrNotEnoughPlayers  = errors.New("not enough players")
	ErrNotInJail         = errors.New("not in jail")
	ErrNoActivePlayers   = errors.New("no active players")
	ErrUnauthorized      = errors.New("unauthorized")

	ErrNoPendingPurchase = errors.New("no pending purchase for this property")
	ErrNothingToPass     = errors.New("nothing to pass")
	ErrMustRollFirst     = errors.New("must roll first")
	ErrNoUpgradeOffer    = errors.New("no upgrade offer for this property")
	ErrMaxLevel          = errors.New("property is at max level")
)
