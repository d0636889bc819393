package order

import "errors"

// Domain errors for order mutations. These are programmer/UI-caused and
// surface synchronously at the call site rather than being swallowed.
var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrUnknownMenuItem = errors.New("item does not match any menu catalog entry")
	ErrLineNotFound    = errors.New("order line not found")
	ErrEmptyItemName   = errors.New("item name must not be empty")
)
