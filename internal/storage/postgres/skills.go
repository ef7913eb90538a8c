package postgres

import (
	"context"

	"portfolio-backend-go/internal/models"
)

type skillStore struct {
	*table[models.Skill, models.SkillInput, models.SkillPatch]
}

func (s skillStore) ListByCategory(ctx context.Context, categoryID int) ([]models.Skill, error) {
	rows := []models.Skill{}
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM skills WHERE category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, s.wrap("list", err)
	}
	return rows, nil
}
