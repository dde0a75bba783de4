package services

import "errors"

// Sentinel errors surfaced by the service layer. Handlers map them to
// HTTP statuses: not-found → 404, conflicts and invalid arguments → 400,
// credentials → 401, everything else → 500.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrAlbumNotFound    = errors.New("album not found")
	ErrCardNotFound     = errors.New("card not found")
	ErrUserCardNotFound = errors.New("user card not found")
	ErrCardNotOwned     = errors.New("user does not have this card")

	ErrDuplicateCardNumber = errors.New("card number already exists in this album")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateUsername   = errors.New("username already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)
