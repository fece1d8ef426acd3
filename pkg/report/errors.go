package report

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown report format")
	ErrNilResult     = errors.New("result is nil")
	ErrNoIndex       = errors.New("result carries no adjacency index")
)
