package scan

import "errors"

var (
	ErrInvalidEpsilon = errors.New("eps should be in [0,1]")
	ErrInvalidMu      = errors.New("mu should be at least 1")
	ErrInvalidAlpha   = errors.New("alpha should be in [0,1]")
	ErrNilIndex       = errors.New("adjacency index is nil")
	ErrAlreadyRun     = errors.New("engine has already produced its clustering")
	ErrRunAborted     = errors.New("sweep run ended without a result")
)
