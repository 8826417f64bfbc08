package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

// MissingProductError is returned when an order line references an unknown product.
type MissingProductError struct {
	ProductID uint64
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// AmountOutOfRangeError is returned when an order line or the running order
// total no longer fits a money column.
type AmountOutOfRangeError struct {
	ProductID uint64
}

func (e *AmountOutOfRangeError) Error() string {
	return fmt.Sprintf("order amount out of range at product %d", e.ProductID)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// updateByID applies fields to the row with id. It returns gorm.ErrRecordNotFound
// when no such row exists, even if the driver reports zero changed rows for an
// unchanged write.
func updateByID(db *gorm.DB, m interface{}, id uint64, fields map[string]interface{}) error {
	res := db.Model(m).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var cnt int64
	if err := db.Model(m).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deleteByID(db *gorm.DB, m interface{}, id uint64) error {
	res := db.Where("id = ?", id).Delete(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func countWhere(db *gorm.DB, m interface{}, query string, args ...interface{}) (int64, error) {
	var cnt int64
	if err := db.Model(m).Where(query, args...).Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}
