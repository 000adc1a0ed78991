package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduplay_backend/internals/features/school/subjects/model"
	helper "eduplay_backend/internals/helpers"
)

type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
}

// GET /api/subjects
func (ctl *SubjectController) List(c *fiber.Ctx) error {
	var subjects []model.SubjectModel
	if err := ctl.DB.Order("id").Find(&subjects).Error; err != nil {
		log.Println("[ERROR] list subjects:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch subjects")
	}
	return helper.JsonOK(c, "", fiber.Map{"subjects": subjects})
}
