package models

import "gorm.io/gorm"

// One logged food entry for one day. Date is kept as "2006-01-02" so the
// per-day queries stay plain string equality.
type FoodLog struct {
    gorm.Model
    UserID   uint   `gorm:"index;not null"`
    Date     string `gorm:"type:varchar(10);index"`
    Food     string `gorm:"type:varchar(100)"`
    Quantity string `gorm:"type:varchar(50)"`
    Calories int
}
