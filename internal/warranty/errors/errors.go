package errors

import (
	"fmt"
)

var (
	ErrNotFound          = fmt.Errorf("not found")
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrConnection        = fmt.Errorf("unable to establish database connection")
	ErrUnknownType       = fmt.Errorf("unknown discriminator type")
	ErrNoPublisher       = fmt.Errorf("no event publisher attached")
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
)
