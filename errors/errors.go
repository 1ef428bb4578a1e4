package errors

import "fmt"

var (
	ErrEmptyMessage       = fmt.Errorf("message is empty")
	ErrMessageTooLong     = fmt.Errorf("message exceeds maximum length")
	ErrDisplayNameTooLong = fmt.Errorf("display name exceeds maximum length")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")
	ErrStoreFailure       = fmt.Errorf("message store failure")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
)
