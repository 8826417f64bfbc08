package model

import "time"

type Retailer struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"size:200;not null"`
	ContactName *string   `gorm:"column:contact_name;size:200"`
	Phone       *string   `gorm:"size:64"`
	Email       *string   `gorm:"size:255"`
	Address     *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (Retailer) TableName() string {
	return "retailers"
}

type Customer struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:200;not null"`
	Phone     *string   `gorm:"size:64"`
	Email     *string   `gorm:"size:255"`
	Address   *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Customer) TableName() string {
	return "customers"
}
