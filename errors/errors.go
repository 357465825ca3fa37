package errors

import "fmt"

var (
	ErrWorkerPanic  = fmt.Errorf("worker panic")
	ErrItemNotFound = fmt.Errorf("inventory item not found")
)
