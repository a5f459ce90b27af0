package customer

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID        snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name      string       `gorm:"column:name;not null" json:"name"`
	Email     string       `gorm:"column:email;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

type CreateRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}
