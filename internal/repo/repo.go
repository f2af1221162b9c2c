package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

type GormRepo struct {
	DB *gorm.DB
}
