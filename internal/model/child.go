package model

type Child struct {
	UUIDBase
	Name     string `gorm:"size:255;not null" json:"name"`
	ParentID string `gorm:"index;type:varchar(36)" json:"parentId"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
	AgeGroup string `gorm:"size:32" json:"ageGroup"`
}

func (Child) TableName() string {
	return "children"
}
