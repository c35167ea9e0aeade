package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
)

// ErrCartNotLoaded is returned by mutations issued before the cart was fetched.
var ErrCartNotLoaded = stderrors.New("cart not loaded")

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrFetchFailed wraps any network or payload failure while loading the cart
type ErrFetchFailed struct {
	Source string
	Cause  error
}

func (e *ErrFetchFailed) Error() string {
	return fmt.Sprintf("failed to fetch cart from %s: %v", e.Source, e.Cause)
}

func (e *ErrFetchFailed) Unwrap() error {
	return e.Cause
}

// ErrInvalidQuantity is returned when a quantity input is not a number, is
// below the item's minimum, or is larger than the cart total can hold
type ErrInvalidQuantity struct {
	ItemID     domain.ItemID
	Input      string
	NotANumber bool
	Quantity   int
	Min        int
	Max        int // zero when the quantity was not checked against an upper bound
}

func (e *ErrInvalidQuantity) Error() string {
	switch {
	case e.NotANumber:
		return fmt.Sprintf("quantity %q for item %s is not a number", e.Input, e.ItemID)
	case e.Max > 0 && e.Quantity > e.Max:
		return fmt.Sprintf("quantity %d for item %s exceeds the maximum of %d", e.Quantity, e.ItemID, e.Max)
	default:
		return fmt.Sprintf("quantity %d for item %s is below the minimum of %d", e.Quantity, e.ItemID, e.Min)
	}
}

// ErrMissingFormField lists the required contact form fields that were empty
type ErrMissingFormField struct {
	Fields []string
}

func (e *ErrMissingFormField) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ErrInvalidStateTransition is returned when a cart row cannot move to the requested state
type ErrInvalidStateTransition struct {
	From domain.RowState
	To   domain.RowState
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid row state transition from %s to %s", e.From, e.To)
}
