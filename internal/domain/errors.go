package domain

import "errors"

var (
	ErrPerformerNotFound = errors.New("performer not found")
	ErrSongNotFound      = errors.New("song not found")
	ErrRequestNotFound   = errors.New("request not found")
	ErrGigNotFound       = errors.New("gig not found")
)

var (
	ErrCapReached         = errors.New("request cap reached")
	ErrSessionOffline     = errors.New("performer is not live")
	ErrSongNotRequestable = errors.New("song is not requestable right now")
)

var (
	ErrSlugTaken     = errors.New("url slug is already taken")
	ErrSlugImmutable = errors.New("url slug cannot be changed once set")
)

var (
	ErrValidation = errors.New("validation error")
)
