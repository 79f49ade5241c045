package tanda

import "errors"

// Every operation fails with exactly one of these sentinel errors, wrapped
// with detail via fmt.Errorf("%w: ..."). Callers branch with errors.Is.
var (
	// ErrUnauthorized means the caller does not hold the role the
	// operation requires (administrator, secretary, or member).
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrNotFound means the referenced group or claim does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPeriodState means the operation was attempted outside the
	// lifecycle state it requires.
	ErrInvalidPeriodState = errors.New("invalid period state")

	// ErrInvariantViolation means a creation-time constraint failed:
	// group size, duplicate members, maxClaim bound, non-positive amounts.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrDuplicatePayment means the member already paid this cycle's premium.
	ErrDuplicatePayment = errors.New("premium already paid")

	// ErrAmountMismatch means the payment was not exactly the premium.
	// Overpayment and underpayment both fail; there is no partial credit.
	ErrAmountMismatch = errors.New("payment must equal premium exactly")

	// ErrIncompleteCollection means activation was attempted before every
	// member paid.
	ErrIncompleteCollection = errors.New("not all members have paid")

	// ErrPeriodNotElapsed means the active period has not run its minimum
	// duration yet.
	ErrPeriodNotElapsed = errors.New("active period has not elapsed")

	// ErrDuplicateClaim means the member already has a pending or approved
	// claim in the current active cycle.
	ErrDuplicateClaim = errors.New("claim already filed this cycle")

	// ErrClaimTooLarge means the claim amount exceeds the group's maxClaim.
	ErrClaimTooLarge = errors.New("claim exceeds maximum claim amount")

	// ErrAlreadyReviewed means the claim was already approved or denied.
	ErrAlreadyReviewed = errors.New("claim already reviewed")

	// ErrInsufficientFunds means the pooled funds cannot cover the payout.
	ErrInsufficientFunds = errors.New("insufficient pooled funds")
)
