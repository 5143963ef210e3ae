package errors

var (
	ErrMerchantNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "merchant not found",
	}
	ErrApplicationNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "application not found",
	}
	ErrApplicationResolved = &DomainError{
		Code:    "INVALID_STATE",
		Message: "application has already been reviewed",
	}
	ErrNotDepositMerchant = &DomainError{
		Code:    "INVALID_STATE",
		Message: "merchant is not a deposit merchant",
	}
	ErrDepositNotFrozen = &DomainError{
		Code:    "INVALID_STATE",
		Message: "merchant deposit is not frozen",
	}
)
