package seeds

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	subjectModel "eduplay_backend/internals/features/school/subjects/model"
)

var defaultSubjects = []subjectModel.SubjectModel{
	{ID: 1, Name: "Mathematics", Icon: "🧮"},
	{ID: 2, Name: "Science", Icon: "🔬"},
	{ID: 3, Name: "English", Icon: "📖"},
	{ID: 4, Name: "History", Icon: "🏛️"},
	{ID: 5, Name: "Geography", Icon: "🌍"},
	{ID: 6, Name: "Computer Science", Icon: "💻"},
}

// SeedSubjects inserts the static subject list; re-running is a no-op.
func SeedSubjects(db *gorm.DB) error {
	subjects := make([]subjectModel.SubjectModel, len(defaultSubjects))
	copy(subjects, defaultSubjects)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&subjects).Error; err != nil {
		return err
	}
	log.Println("[SEED] subjects ready")
	return nil
}
