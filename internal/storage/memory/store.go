// Package memory is the storage backend used when no database is configured.
// State lives for the lifetime of the Store and passwords are compared in
// plain text, so it is only suitable for development and tests.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/storage"
)

type Store struct {
	mu        sync.RWMutex
	mutations atomic.Int64
	now       func() time.Time

	users           *userTable
	settings        *singleton[models.PortfolioSettings, *models.PortfolioSettings, models.PortfolioSettingsPatch]
	about           *singleton[models.AboutContent, *models.AboutContent, models.AboutContentPatch]
	contactInfo     *singleton[models.ContactInfo, *models.ContactInfo, models.ContactInfoPatch]
	skillCategories orderedTable[models.SkillCategory, *models.SkillCategory, models.SkillCategoryInput, models.SkillCategoryPatch]
	skills          *skillTable
	education       orderedTable[models.Education, *models.Education, models.EducationInput, models.EducationPatch]
	experience      orderedTable[models.Experience, *models.Experience, models.ExperienceInput, models.ExperiencePatch]
	projects        orderedTable[models.Project, *models.Project, models.ProjectInput, models.ProjectPatch]
	openSource      orderedTable[models.OpenSourceContribution, *models.OpenSourceContribution, models.OpenSourceContributionInput, models.OpenSourceContributionPatch]
}

type Option func(*Store)

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSiteTitle sets the site title served before settings are first saved.
func WithSiteTitle(title string) Option {
	return func(s *Store) {
		s.settings.defaults = func() models.PortfolioSettings {
			return models.DefaultPortfolioSettings(title)
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	s.users = newUserTable(s)
	s.settings = newSingleton[models.PortfolioSettings, *models.PortfolioSettings, models.PortfolioSettingsPatch](s, func() models.PortfolioSettings {
		return models.DefaultPortfolioSettings("")
	})
	s.settings.touch = func(row *models.PortfolioSettings) { row.UpdatedAt = s.now().UTC() }
	s.about = newSingleton[models.AboutContent, *models.AboutContent, models.AboutContentPatch](s, models.DefaultAboutContent)
	s.contactInfo = newSingleton[models.ContactInfo, *models.ContactInfo, models.ContactInfoPatch](s, models.DefaultContactInfo)
	s.skillCategories = newOrderedTable[models.SkillCategory, *models.SkillCategory, models.SkillCategoryInput, models.SkillCategoryPatch](s)
	s.skills = newSkillTable(s)
	s.education = newOrderedTable[models.Education, *models.Education, models.EducationInput, models.EducationPatch](s)
	s.experience = newOrderedTable[models.Experience, *models.Experience, models.ExperienceInput, models.ExperiencePatch](s)
	s.projects = newOrderedTable[models.Project, *models.Project, models.ProjectInput, models.ProjectPatch](s)
	s.openSource = newOrderedTable[models.OpenSourceContribution, *models.OpenSourceContribution, models.OpenSourceContributionInput, models.OpenSourceContributionPatch](s)

	s.skillCategories.onDelete = func(categoryID int) {
		s.skills.deleteWhereLocked(func(skill *models.Skill) bool { return skill.CategoryID == categoryID })
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Users() storage.UserStore                    { return s.users }
func (s *Store) Settings() storage.SettingsStore             { return s.settings }
func (s *Store) About() storage.AboutStore                   { return s.about }
func (s *Store) ContactInfo() storage.ContactInfoStore       { return s.contactInfo }
func (s *Store) SkillCategories() storage.SkillCategoryStore { return s.skillCategories }
func (s *Store) Skills() storage.SkillStore                  { return s.skills }
func (s *Store) Education() storage.EducationStore           { return s.education }
func (s *Store) Experience() storage.ExperienceStore         { return s.experience }
func (s *Store) Projects() storage.ProjectStore              { return s.projects }
func (s *Store) OpenSource() storage.OpenSourceStore         { return s.openSource }

// Mutations reports how many writes the store has applied.
func (s *Store) Mutations() int64 {
	return s.mutations.Load()
}

func (s *Store) InitializeDatabase(ctx context.Context, seed storage.AdminSeed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.users.hasAdminLocked() {
		if _, err := s.users.createLocked(models.UserInput{
			Username: seed.Username,
			Password: seed.Password,
			IsAdmin:  true,
		}); err != nil {
			return err
		}
	}
	if s.settings.row == nil {
		if title := seed.SiteTitle; title != "" {
			s.settings.defaults = func() models.PortfolioSettings {
				return models.DefaultPortfolioSettings(title)
			}
		}
		s.settings.upsertLocked(models.PortfolioSettingsPatch{})
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

var _ storage.Storage = (*Store)(nil)
