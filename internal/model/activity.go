package model

type ActivitySubject string

const (
	SubjectMath    ActivitySubject = "math"
	SubjectReading ActivitySubject = "reading"
	SubjectScience ActivitySubject = "science"
	SubjectLogic   ActivitySubject = "logic"
)

type Activity struct {
	UUIDBase
	Title             string          `gorm:"size:255;not null" json:"title"`
	Description       string          `gorm:"type:text" json:"description"`
	Subject           ActivitySubject `gorm:"size:32" json:"subject"`
	PlanID            string          `gorm:"index;type:varchar(36)" json:"planId"`
	ChildID           string          `gorm:"index;type:varchar(36)" json:"childId"`
	EstimatedDuration int             `gorm:"not null" json:"estimatedDuration"` // seconds
	Order             int             `gorm:"default:0" json:"order"`
}

func (Activity) TableName() string {
	return "activities"
}
