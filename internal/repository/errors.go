package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by point lookups that must hit a row
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict means the row changed since it was read
	ErrVersionConflict = errors.New("optimistic lock failed: row modified by another transaction")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
