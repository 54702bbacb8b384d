package errors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalid           = errors.New("invalid")
	ErrInternal          = errors.New("internal")
	ErrUpstream          = errors.New("upstream service")
	ErrEmbedding         = errors.New("embedding service")
	ErrGeneration        = errors.New("generation service")
	ErrMalformedResponse = errors.New("malformed response")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
