// Package storage defines the persistence contract shared by the memory and
// postgres backends.
package storage

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend-go/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MissingIDError names the first id of a reorder request that does not
// resolve to a stored record.
type MissingIDError struct {
	ID int
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("record with ID %d not found", e.ID)
}

func (e *MissingIDError) Unwrap() error {
	return ErrNotFound
}

type Collection[E, In, P any] interface {
	List(ctx context.Context) ([]E, error)
	Get(ctx context.Context, id int) (E, error)
	Create(ctx context.Context, in In) (E, error)
	Update(ctx context.Context, id int, patch P) (E, error)
	Delete(ctx context.Context, id int) error
}

// OrderedCollection is a collection listed by display order.
type OrderedCollection[E, In, P any] interface {
	Collection[E, In, P]
	// Reorder sets each record's display order to its position in ids and
	// returns the re-sorted collection. Nothing is written when an id is
	// unknown.
	Reorder(ctx context.Context, ids []int) ([]E, error)
}

// Singleton is a kind with at most one stored row. Get never writes and
// returns defaults with ID 0 when the row is absent.
type Singleton[E, P any] interface {
	Get(ctx context.Context) (E, error)
	Upsert(ctx context.Context, patch P) (E, error)
}

type UserStore interface {
	Get(ctx context.Context, id int) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	Create(ctx context.Context, in models.UserInput) (models.User, error)
	// Validate returns the user when the credentials match, or
	// ErrInvalidCredentials.
	Validate(ctx context.Context, username, password string) (models.User, error)
	HasAdmin(ctx context.Context) (bool, error)
}

type SkillStore interface {
	Collection[models.Skill, models.SkillInput, models.SkillPatch]
	ListByCategory(ctx context.Context, categoryID int) ([]models.Skill, error)
}

type (
	SettingsStore      = Singleton[models.PortfolioSettings, models.PortfolioSettingsPatch]
	AboutStore         = Singleton[models.AboutContent, models.AboutContentPatch]
	ContactInfoStore   = Singleton[models.ContactInfo, models.ContactInfoPatch]
	SkillCategoryStore = OrderedCollection[models.SkillCategory, models.SkillCategoryInput, models.SkillCategoryPatch]
	EducationStore     = OrderedCollection[models.Education, models.EducationInput, models.EducationPatch]
	ExperienceStore    = OrderedCollection[models.Experience, models.ExperienceInput, models.ExperiencePatch]
	ProjectStore       = OrderedCollection[models.Project, models.ProjectInput, models.ProjectPatch]
	OpenSourceStore    = OrderedCollection[models.OpenSourceContribution, models.OpenSourceContributionInput, models.OpenSourceContributionPatch]
)

// AdminSeed is the account InitializeDatabase creates when no admin exists.
type AdminSeed struct {
	Username  string
	Password  string
	SiteTitle string
}

type Storage interface {
	Users() UserStore
	Settings() SettingsStore
	About() AboutStore
	ContactInfo() ContactInfoStore
	SkillCategories() SkillCategoryStore
	Skills() SkillStore
	Education() EducationStore
	Experience() ExperienceStore
	Projects() ProjectStore
	OpenSource() OpenSourceStore

	// InitializeDatabase makes sure an admin account and the settings row
	// exist. It is safe to call on every startup.
	InitializeDatabase(ctx context.Context, seed AdminSeed) error
	Ping(ctx context.Context) error
	Close() error
}

// CheckOrder returns a MissingIDError for the first requested id that is not
// among existing.
func CheckOrder(existing, requested []int) error {
	known := make(map[int]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := known[id]; !ok {
			return &MissingIDError{ID: id}
		}
	}
	return nil
}
