package services

import (
	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
)

var (
	// ErrDuplicateCredential indicates the username or email is already registered.
	ErrDuplicateCredential = apperrors.New(apperrors.CodeDuplicateCredential, "username or email already in use")
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = apperrors.New(apperrors.CodeAuthenticationFailed, "invalid email or password")
	// ErrUserNotFound indicates the user referenced by a token no longer exists.
	ErrUserNotFound = apperrors.New(apperrors.CodeNotFound, "user not found")
	// ErrTaskNotFound is returned both for missing tasks and tasks owned by someone else.
	ErrTaskNotFound = apperrors.New(apperrors.CodeNotFound, "task not found or access denied")
	// ErrUnauthenticated indicates a service call without a resolved identity.
	ErrUnauthenticated = apperrors.New(apperrors.CodeAuthenticationFailed, "authentication required")
)

func validationError(message string) error {
	return apperrors.New(apperrors.CodeValidation, message)
}

// storageError hides infrastructure failures behind a generic error.
func storageError(err error) error {
	return apperrors.Wrap(apperrors.CodeStorageUnavailable, "storage unavailable", err)
}
