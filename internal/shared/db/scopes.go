package db

import (
	"gorm.io/gorm"

	"panelsync/internal/shared/constants"
)

// Paginate limits a query to one page. Non-positive values fall back to the
// defaults; pageSize is capped at constants.MaxPageSize.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 {
			page = constants.DefaultPage
		}
		if pageSize <= 0 {
			pageSize = constants.DefaultPageSize
		}
		if pageSize > constants.MaxPageSize {
			pageSize = constants.MaxPageSize
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// Chronological orders append-only rows by creation, using the primary key to
// break ties between rows written in the same clock tick.
func Chronological(desc bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if desc {
			return db.Order("created_at DESC").Order("id DESC")
		}
		return db.Order("created_at ASC").Order("id ASC")
	}
}
