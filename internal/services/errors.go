package services

import (
	"errors"
	"fmt"

	"garment_tracker/internal/models"
)

// Sentinel errors shared across services. Handlers map these to HTTP codes.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrAlreadyProcessed = errors.New("la operación ya fue procesada")
)

// ValidationError rejects malformed input. No mutation happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthorizationError rejects an actor lacking the required area or role.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// InsufficientBalanceError rejects a transfer that exceeds the live balance
// of the source area. Carries both counts for the user-facing message.
type InsufficientBalanceError struct {
	Area      models.Area
	Requested int
	Available int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("no hay suficientes piezas disponibles en %s: solicitadas %d, disponibles %d",
		e.Area, e.Requested, e.Available)
}

// InvariantViolationError marks a hard failure: a mutation that would corrupt
// state (negative ledger balance, duplicate folio). The enclosing transaction
// is aborted and the condition is never silently corrected.
type InvariantViolationError struct {
	Msg string
}

func (e *InvariantViolationError) Error() string { return e.Msg }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsInsufficientBalance(err error) bool {
	var ie *InsufficientBalanceError
	return errors.As(err, &ie)
}

func IsInvariantViolation(err error) bool {
	var iv *InvariantViolationError
	return errors.As(err, &iv)
}
