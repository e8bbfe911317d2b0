package relation

import "errors"

var (
	ErrAlreadyExists    = errors.New("relation already exists")
	ErrEdgeNotFound     = errors.New("relation does not exist")
	ErrObjectNotFound   = errors.New("relation target not found")
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
)
