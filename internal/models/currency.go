package models

// Currency is immutable reference data seeded by migration.
type Currency struct {
	Base
	Code   string `gorm:"size:3;uniqueIndex;not null" json:"code"`
	Symbol string `gorm:"size:8;not null" json:"symbol"`
}
