package model

type ParentRole string

const (
	RoleParent ParentRole = "parent"
	RoleAdmin  ParentRole = "admin"
)

type Parent struct {
	UUIDBase
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"size:255" json:"name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         ParentRole `gorm:"size:16;default:'parent'" json:"role"`
}

func (Parent) TableName() string {
	return "parents"
}
