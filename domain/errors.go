package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrUnauthenticated  = errors.New("unauthenticated")

	// ledger reverts
	ErrInsufficientValue     = errors.New("insufficient value")
	ErrIncorrectValue        = errors.New("incorrect value")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrDuplicateBid          = errors.New("bid already exists")
	ErrBidNotFound           = errors.New("bid not found")
	ErrCollectionMismatch    = errors.New("collection mismatch")
	ErrPriceMismatch         = errors.New("price mismatch")
	ErrArrayLengthMismatch   = errors.New("array length mismatch")
	ErrNotTokenOwner         = errors.New("not token owner")
	ErrNotApproved           = errors.New("not approved")
	ErrInsufficientHoldings  = errors.New("insufficient holdings")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrFeeExceedsCap         = errors.New("fee exceeds cap")
	ErrSelfApproval          = errors.New("approval to self")
)

// IsRevert reports whether err is a ledger precondition failure rather than an infrastructure error
func IsRevert(err error) bool {
	for _, e := range revertErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

var revertErrors = []error{
	ErrNotFound,
	ErrConflict,
	ErrBadParamInput,
	ErrInvalidAddress,
	ErrInsufficientValue,
	ErrIncorrectValue,
	ErrInvalidAmount,
	ErrDuplicateBid,
	ErrBidNotFound,
	ErrCollectionMismatch,
	ErrPriceMismatch,
	ErrArrayLengthMismatch,
	ErrNotTokenOwner,
	ErrNotApproved,
	ErrInsufficientHoldings,
	ErrInsufficientBalance,
	ErrInsufficientLiquidity,
	ErrUnauthorized,
	ErrFeeExceedsCap,
	ErrSelfApproval,
}
