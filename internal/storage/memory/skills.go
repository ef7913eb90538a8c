package memory

import (
	"context"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/storage"
)

type skillTable struct {
	*table[models.Skill, *models.Skill, models.SkillInput, models.SkillPatch]
}

func newSkillTable(store *Store) *skillTable {
	t := newTable[models.Skill, *models.Skill, models.SkillInput, models.SkillPatch](store)
	t.check = func(skill *models.Skill) error {
		if _, ok := store.skillCategories.rows[skill.CategoryID]; !ok {
			return storage.ErrInvalidReference
		}
		return nil
	}
	return &skillTable{table: t}
}

func (s *skillTable) ListByCategory(ctx context.Context, categoryID int) ([]models.Skill, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return s.listLocked(func(skill *models.Skill) bool { return skill.CategoryID == categoryID }), nil
}
