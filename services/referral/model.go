package referral

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Group struct {
	ID        snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name      string       `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Group) TableName() string { return "groups" }

type Ambassador struct {
	ID        snowflake.ID  `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name      string        `gorm:"column:name;not null" json:"name"`
	Email     string        `gorm:"column:email;uniqueIndex;not null" json:"email"`
	GroupID   *snowflake.ID `gorm:"column:group_id;index" json:"group_id"`
	CreatedAt time.Time     `gorm:"column:created_at" json:"created_at"`
}

func (Ambassador) TableName() string { return "ambassadors" }

type QRCode struct {
	ID           snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Code         string       `gorm:"column:code;uniqueIndex;not null" json:"code"`
	AmbassadorID snowflake.ID `gorm:"column:ambassador_id;index;not null" json:"ambassador_id"`
	CreatedAt    time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (QRCode) TableName() string { return "qr_codes" }

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateAmbassadorRequest struct {
	Name    string        `json:"name" binding:"required"`
	Email   string        `json:"email" binding:"required,email"`
	GroupID *snowflake.ID `json:"group_id"`
}

type CreateQRCodeRequest struct {
	Code         string       `json:"code"`
	AmbassadorID snowflake.ID `json:"ambassador_id" binding:"required"`
}
