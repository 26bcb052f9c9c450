package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and password
	// mismatches so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountDeactivated is returned on login against a deactivated account.
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrEmailTaken is returned when registering or updating to an email that
	// belongs to another user.
	ErrEmailTaken = errors.New("email is already in use")
	// ErrInvalidToken covers malformed tokens, bad signatures and wrong
	// signing algorithms.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token is expired")
	// ErrUserNotFound is returned when a principal or target id resolves to
	// no user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfDeactivation is returned when a user attempts to deactivate
	// their own account.
	ErrSelfDeactivation = errors.New("cannot deactivate your own account")
)
