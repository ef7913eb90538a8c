// Package postgres is the relational storage backend, used when a database
// connection string is configured.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/storage"
)

type Store struct {
	db  *sqlx.DB
	now func() time.Time

	users           userStore
	settings        *singleton[models.PortfolioSettings, *models.PortfolioSettings, models.PortfolioSettingsPatch]
	about           *singleton[models.AboutContent, *models.AboutContent, models.AboutContentPatch]
	contactInfo     *singleton[models.ContactInfo, *models.ContactInfo, models.ContactInfoPatch]
	skillCategories orderedTable[models.SkillCategory, models.SkillCategoryInput, models.SkillCategoryPatch]
	skills          skillStore
	education       orderedTable[models.Education, models.EducationInput, models.EducationPatch]
	experience      orderedTable[models.Experience, models.ExperienceInput, models.ExperiencePatch]
	projects        orderedTable[models.Project, models.ProjectInput, models.ProjectPatch]
	openSource      orderedTable[models.OpenSourceContribution, models.OpenSourceContributionInput, models.OpenSourceContributionPatch]
}

type Option func(*Store)

// WithSiteTitle sets the site title served before settings are first saved.
func WithSiteTitle(title string) Option {
	return func(s *Store) {
		s.settings.defaults = func() models.PortfolioSettings {
			return models.DefaultPortfolioSettings(title)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps an open connection. The schema must already be migrated.
func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now, users: userStore{db: db}}
	s.settings = &singleton[models.PortfolioSettings, *models.PortfolioSettings, models.PortfolioSettingsPatch]{
		rows: &table[models.PortfolioSettings, noInput[models.PortfolioSettings], models.PortfolioSettingsPatch]{
			db:      db,
			name:    "portfolio_settings",
			columns: []string{"primary_color", "variant", "appearance", "radius", "site_title", "logo", "updated_at"},
			values: func(r *models.PortfolioSettings) []any {
				return []any{r.Primary, r.Variant, r.Appearance, r.Radius, r.SiteTitle, r.Logo, r.UpdatedAt}
			},
			orderBy: "id",
		},
		defaults: func() models.PortfolioSettings { return models.DefaultPortfolioSettings("") },
		touch:    func(r *models.PortfolioSettings) { r.UpdatedAt = s.now().UTC() },
	}
	s.about = &singleton[models.AboutContent, *models.AboutContent, models.AboutContentPatch]{
		rows: &table[models.AboutContent, noInput[models.AboutContent], models.AboutContentPatch]{
			db:      db,
			name:    "about_content",
			columns: []string{"journey_text", "quote", "expertise_items", "traits"},
			values: func(r *models.AboutContent) []any {
				return []any{r.JourneyText, r.Quote, r.ExpertiseItems, r.Traits}
			},
			orderBy: "id",
		},
		defaults: models.DefaultAboutContent,
	}
	s.contactInfo = &singleton[models.ContactInfo, *models.ContactInfo, models.ContactInfoPatch]{
		rows: &table[models.ContactInfo, noInput[models.ContactInfo], models.ContactInfoPatch]{
			db:      db,
			name:    "contact_info",
			columns: []string{"email", "phone", "location", "github", "linkedin", "stackoverflow"},
			values: func(r *models.ContactInfo) []any {
				return []any{r.Email, r.Phone, r.Location, r.Github, r.Linkedin, r.Stackoverflow}
			},
			orderBy: "id",
		},
		defaults: models.DefaultContactInfo,
	}
	s.skillCategories = orderedTable[models.SkillCategory, models.SkillCategoryInput, models.SkillCategoryPatch]{
		table: &table[models.SkillCategory, models.SkillCategoryInput, models.SkillCategoryPatch]{
			db:      db,
			name:    "skills_categories",
			columns: []string{"name", "icon", "display_order"},
			values: func(r *models.SkillCategory) []any {
				return []any{r.Name, r.Icon, r.DisplayOrder}
			},
			orderBy: "display_order, id",
		},
	}
	s.skills = skillStore{
		table: &table[models.Skill, models.SkillInput, models.SkillPatch]{
			db:      db,
			name:    "skills",
			columns: []string{"name", "level", "category_id"},
			values: func(r *models.Skill) []any {
				return []any{r.Name, r.Level, r.CategoryID}
			},
			orderBy: "id",
		},
	}
	s.education = orderedTable[models.Education, models.EducationInput, models.EducationPatch]{
		table: &table[models.Education, models.EducationInput, models.EducationPatch]{
			db:      db,
			name:    "education",
			columns: []string{"degree", "institution", "location", "period", "description", "courses", "achievements", "display_order"},
			values: func(r *models.Education) []any {
				return []any{r.Degree, r.Institution, r.Location, r.Period, r.Description, r.Courses, r.Achievements, r.DisplayOrder}
			},
			orderBy: "display_order, id",
		},
	}
	s.experience = orderedTable[models.Experience, models.ExperienceInput, models.ExperiencePatch]{
		table: &table[models.Experience, models.ExperienceInput, models.ExperiencePatch]{
			db:      db,
			name:    "experiences",
			columns: []string{"title", "company", "period", "responsibilities", "display_order"},
			values: func(r *models.Experience) []any {
				return []any{r.Title, r.Company, r.Period, r.Responsibilities, r.DisplayOrder}
			},
			orderBy: "display_order, id",
		},
	}
	s.projects = orderedTable[models.Project, models.ProjectInput, models.ProjectPatch]{
		table: &table[models.Project, models.ProjectInput, models.ProjectPatch]{
			db:      db,
			name:    "projects",
			columns: []string{"title", "period", "description", "technologies", "image", "demo_link", "code_link", "display_order", "featured"},
			values: func(r *models.Project) []any {
				return []any{r.Title, r.Period, r.Description, r.Technologies, r.Image, r.DemoLink, r.CodeLink, r.DisplayOrder, r.Featured}
			},
			orderBy: "display_order, id",
		},
	}
	s.openSource = orderedTable[models.OpenSourceContribution, models.OpenSourceContributionInput, models.OpenSourceContributionPatch]{
		table: &table[models.OpenSourceContribution, models.OpenSourceContributionInput, models.OpenSourceContributionPatch]{
			db:      db,
			name:    "open_source_contributions",
			columns: []string{"title", "description", "link", "link_text", "icon", "display_order"},
			values: func(r *models.OpenSourceContribution) []any {
				return []any{r.Title, r.Description, r.Link, r.LinkText, r.Icon, r.DisplayOrder}
			},
			orderBy: "display_order, id",
		},
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

func (s *Store) InitializeDatabase(ctx context.Context, seed storage.AdminSeed) error {
	hasAdmin, err := s.users.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if !hasAdmin {
		if _, err := s.users.Create(ctx, models.UserInput{
			Username: seed.Username,
			Password: seed.Password,
			IsAdmin:  true,
		}); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	exists, err := s.settings.exists(ctx)
	if err != nil {
		return mapError("check settings", err)
	}
	if !exists {
		if seed.SiteTitle != "" {
			WithSiteTitle(seed.SiteTitle)(s)
		}
		if _, err := s.settings.Upsert(ctx, models.PortfolioSettingsPatch{}); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.Storage = (*Store)(nil)
