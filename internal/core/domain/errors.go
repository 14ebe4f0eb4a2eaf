package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrSessionExpired = errors.New("session expired")
	ErrCorruptSession = errors.New("corrupt session record")

	ErrGateNotFound       = errors.New("gate not found")
	ErrInvalidPassphrase  = errors.New("invalid passphrase")
	ErrPassphraseRequired = errors.New("passphrase check not passed")
)
