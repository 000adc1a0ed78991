package model

// SubjectModel is static reference data seeded at startup.
type SubjectModel struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Icon string `gorm:"size:16" json:"icon"`
}

func (SubjectModel) TableName() string {
	return "subjects"
}
