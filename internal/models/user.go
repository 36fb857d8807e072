package models

// User represents the user model in the database
type User struct {
	Base
	Email       string       `gorm:"uniqueIndex;not null" json:"email"`
	Password    string       `gorm:"not null" json:"-"`
	FullName    string       `gorm:"not null" json:"full_name"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	IsVerified  bool         `gorm:"default:false" json:"is_verified"`
	Expenses    []Expense    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Investments []Investment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
