package till

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorCode categorizes till operation failures.
type ErrorCode string

const (
	// ErrCodeNoActiveShift indicates a checkout outside an active shift.
	ErrCodeNoActiveShift ErrorCode = "NO_ACTIVE_SHIFT"

	// ErrCodeIncompleteOrder indicates a checkout with a missing selection
	// (empty cart, worker, payment method or order type).
	ErrCodeIncompleteOrder ErrorCode = "INCOMPLETE_ORDER"

	// ErrCodeInsufficientStock indicates a reservation shortfall.
	ErrCodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"

	// ErrCodeInvalidTransition indicates a disallowed order state change.
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// ErrCodeAlreadyTerminal indicates a void attempt on a settled order.
	ErrCodeAlreadyTerminal ErrorCode = "ALREADY_TERMINAL"

	// ErrCodeNotAuthorized indicates a PIN or handover-name mismatch.
	ErrCodeNotAuthorized ErrorCode = "NOT_AUTHORIZED"

	// ErrCodeNoPinSet indicates an admin slot with an empty stored PIN.
	ErrCodeNoPinSet ErrorCode = "NO_PIN_SET"

	// ErrCodeInvalidHandover indicates an empty or unchanged takeover name.
	ErrCodeInvalidHandover ErrorCode = "INVALID_HANDOVER"

	// ErrCodeSyncFailure indicates a remote mirror read/write error.
	ErrCodeSyncFailure ErrorCode = "SYNC_FAILURE"

	// ErrCodeReportFailure indicates an external document generation error.
	ErrCodeReportFailure ErrorCode = "REPORT_FAILURE"

	// ErrCodeInventoryLocked indicates a structural edit on a locked ledger.
	ErrCodeInventoryLocked ErrorCode = "INVENTORY_LOCKED"

	// ErrCodeNotFound indicates a lookup miss (order, item, expense).
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeValidation indicates a malformed argument.
	ErrCodeValidation ErrorCode = "VALIDATION"
)

// TillError is the structured error returned by every till operation. The
// fields name the specific resource so the operator can act on the failure.
type TillError struct {
	Code    ErrorCode
	Message string

	// OrderNo identifies the affected order, when any.
	OrderNo int

	// ItemID identifies the short inventory item for stock errors.
	ItemID string

	// Needed and Available carry the shortfall for stock errors.
	Needed    decimal.Decimal
	Available decimal.Decimal

	// AdminNo identifies the admin slot for PIN errors.
	AdminNo int
}

func (e *TillError) Error() string {
	switch {
	case e.Code == ErrCodeInsufficientStock:
		return fmt.Sprintf("%s: %s (item=%s, need=%s, have=%s)",
			e.Code, e.Message, e.ItemID, e.Needed.String(), e.Available.String())
	case e.OrderNo != 0:
		return fmt.Sprintf("%s: %s (order=%d)", e.Code, e.Message, e.OrderNo)
	case e.AdminNo != 0:
		return fmt.Sprintf("%s: %s (admin=%d)", e.Code, e.Message, e.AdminNo)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a TillError.
func CodeOf(err error) ErrorCode {
	var te *TillError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// IsCode reports whether err is a TillError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func errNoActiveShift() *TillError {
	return &TillError{Code: ErrCodeNoActiveShift, Message: "start a shift before committing orders"}
}

func errIncompleteOrder(what string) *TillError {
	return &TillError{Code: ErrCodeIncompleteOrder, Message: what + " is required"}
}

func errInsufficientStock(itemID, itemName string, needed, available decimal.Decimal) *TillError {
	return &TillError{
		Code:      ErrCodeInsufficientStock,
		Message:   fmt.Sprintf("not enough %s in stock", itemName),
		ItemID:    itemID,
		Needed:    needed,
		Available: available,
	}
}

func errInvalidTransition(orderNo int, detail string) *TillError {
	return &TillError{Code: ErrCodeInvalidTransition, Message: detail, OrderNo: orderNo}
}

func errAlreadyTerminal(orderNo int, detail string) *TillError {
	return &TillError{Code: ErrCodeAlreadyTerminal, Message: detail, OrderNo: orderNo}
}

func errNotAuthorized(detail string) *TillError {
	return &TillError{Code: ErrCodeNotAuthorized, Message: detail}
}

func errNoPinSet(adminNo int) *TillError {
	return &TillError{
		Code:    ErrCodeNoPinSet,
		Message: "no PIN set for this admin slot",
		AdminNo: adminNo,
	}
}

func errInvalidHandover(detail string) *TillError {
	return &TillError{Code: ErrCodeInvalidHandover, Message: detail}
}

func errInventoryLocked(detail string) *TillError {
	return &TillError{Code: ErrCodeInventoryLocked, Message: detail}
}

func errNotFound(what string) *TillError {
	return &TillError{Code: ErrCodeNotFound, Message: what + " not found"}
}

func errValidation(detail string) *TillError {
	return &TillError{Code: ErrCodeValidation, Message: detail}
}
