package repository

import (
	"errors"
	"fmt"
)

var (
	ErrSizeNotFound     = errors.New("size not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSettingsNotFound = errors.New("settings not found")
	ErrAdminNotFound    = errors.New("admin not found")
)

// InsufficientStockError identifies the first cart line that failed the
// availability check.
type InsufficientStockError struct {
	SizeName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient quantity available for %s", e.SizeName)
}

func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
