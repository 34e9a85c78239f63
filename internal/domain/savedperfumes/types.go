package savedperfumes

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("perfume is not in favorites")
	ErrUnknownPerfume    = errors.New("perfume does not exist")
	QueryTimeoutDuration = time.Second * 5
)
