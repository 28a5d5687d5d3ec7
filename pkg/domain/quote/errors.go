package quote

import "errors"

var (
	ErrInvalidProvince    = errors.New("invalid province code")
	ErrInvalidPostalCode  = errors.New("invalid postal code")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidVehicles    = errors.New("vehicle count must be between 1 and 99")
	ErrInvalidAmount      = errors.New("amount must be a non-negative number")
	ErrInvalidPayment     = errors.New("payment option must be F (full) or M (monthly)")
	ErrMissingName        = errors.New("first and last name are required")
	ErrMissingClaimNumber = errors.New("claim number is required")
	ErrNotYesNo           = errors.New("answer must be Y or N")
)
