package service

import "errors"

// Business-rule failures surfaced to the API layer. Match with errors.Is().
var (
	ErrNotFound        = errors.New("not found")
	ErrUserExists      = errors.New("user already exists")
	ErrDuplicatePhone  = errors.New("duplicate phone number")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrAccountDeleted  = errors.New("account is deleted")
	ErrAlreadyVerified = errors.New("user already verified")
	ErrSamePassword    = errors.New("new password cannot match the old password")
	ErrInvalidToken    = errors.New("invalid or expired token")
)
