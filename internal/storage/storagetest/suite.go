// Package storagetest holds the behaviour every storage backend must share.
// Backends run it from their own tests with a constructor that returns an
// empty store.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/storage"
)

type Factory func(t *testing.T) storage.Storage

func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store storage.Storage)
	}{
		{"ListOrdersByDisplayOrderThenInsertion", testListOrdering},
		{"CreateGetRoundTrip", testRoundTrip},
		{"EmptyPatchIsNoop", testEmptyPatch},
		{"PatchUpdatesOnlySuppliedFields", testPartialPatch},
		{"PatchNullClearsOptionalFields", testPatchClearsNullable},
		{"UpdateMissingIsNotFound", testUpdateMissing},
		{"DeleteThenGetIsNotFound", testDelete},
		{"CategoryDeleteCascadesToSkills", testCascade},
		{"SkillRequiresExistingCategory", testSkillReference},
		{"ListSkillsByCategory", testListByCategory},
		{"ReorderAssignsPositions", testReorder},
		{"ReorderWithUnknownIDChangesNothing", testReorderUnknown},
		{"ReorderEveryOrderedKind", testReorderOtherKinds},
		{"SingletonDefaultsWithoutWriting", testSingletonDefaults},
		{"SingletonUpsertKeepsOneRow", testSingletonUpsert},
		{"UsersCreateAndValidate", testUsers},
		{"InitializeDatabaseIsIdempotent", testInitialize},
		{"Ping", testPing},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func strPtr(value string) *string { return &value }
func intPtr(value int) *int       { return &value }

func ids[E any](rows []E, id func(E) int) []int {
	out := make([]int, len(rows))
	for i, row := range rows {
		out[i] = id(row)
	}
	return out
}

func projectID(p models.Project) int { return p.ID }

func createProjects(t *testing.T, store storage.Storage, titles ...string) []models.Project {
	t.Helper()
	ctx := context.Background()
	out := make([]models.Project, 0, len(titles))
	for _, title := range titles {
		project, err := store.Projects().Create(ctx, models.ProjectInput{Title: title})
		require.NoError(t, err)
		out = append(out, project)
	}
	return out
}

func testListOrdering(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	created := []models.Experience{}
	for _, order := range []int{2, 0, 1, 0, 2} {
		exp, err := store.Experience().Create(ctx, models.ExperienceInput{
			Title:        "Engineer",
			Company:      "Acme",
			DisplayOrder: intPtr(order),
		})
		require.NoError(t, err)
		created = append(created, exp)
	}

	listed, err := store.Experience().List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 5)
	want := []int{created[1].ID, created[3].ID, created[2].ID, created[0].ID, created[4].ID}
	assert.Equal(t, want, ids(listed, func(e models.Experience) int { return e.ID }))
	for i := 1; i < len(listed); i++ {
		assert.LessOrEqual(t, listed[i-1].DisplayOrder, listed[i].DisplayOrder)
	}
}

func testRoundTrip(t *testing.T, store storage.Storage) {
	ctx := context.Background()

	featured := true
	project, err := store.Projects().Create(ctx, models.ProjectInput{
		Title:        "Portfolio",
		Period:       strPtr("2024"),
		Technologies: &models.StringList{"go", "postgres"},
		DemoLink:     strPtr("https://example.com"),
		Featured:     &featured,
	})
	require.NoError(t, err)
	assert.NotZero(t, project.ID)
	assert.Nil(t, project.Description)
	assert.Nil(t, project.Image)
	assert.Equal(t, 0, project.DisplayOrder)
	got, err := store.Projects().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project, got)

	edu, err := store.Education().Create(ctx, models.EducationInput{Degree: "BSc", Institution: "University"})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{}, edu.Courses)
	gotEdu, err := store.Education().Get(ctx, edu.ID)
	require.NoError(t, err)
	assert.Equal(t, edu, gotEdu)

	contribution, err := store.OpenSource().Create(ctx, models.OpenSourceContributionInput{Title: "chi", Link: strPtr("https://github.com/go-chi/chi")})
	require.NoError(t, err)
	gotContribution, err := store.OpenSource().Get(ctx, contribution.ID)
	require.NoError(t, err)
	assert.Equal(t, contribution, gotContribution)

	category, err := store.SkillCategories().Create(ctx, models.SkillCategoryInput{Name: "Backend", Icon: "server"})
	require.NoError(t, err)
	skill, err := store.Skills().Create(ctx, models.SkillInput{Name: "Go", Level: 90, CategoryID: category.ID})
	require.NoError(t, err)
	gotSkill, err := store.Skills().Get(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, skill, gotSkill)

	second, err := store.Projects().Create(ctx, models.ProjectInput{Title: "Another"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, project.ID)
}

func testEmptyPatch(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	exp, err := store.Experience().Create(ctx, models.ExperienceInput{
		Title:            "Engineer",
		Company:          "Acme",
		Period:           strPtr("2020 - 2023"),
		Responsibilities: &models.StringList{"build", "ship"},
		DisplayOrder:     intPtr(4),
	})
	require.NoError(t, err)

	updated, err := store.Experience().Update(ctx, exp.ID, models.ExperiencePatch{})
	require.NoError(t, err)
	assert.Equal(t, exp, updated)

	got, err := store.Experience().Get(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, exp, got)
}

func testPartialPatch(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	project, err := store.Projects().Create(ctx, models.ProjectInput{
		Title:        "Old",
		Description:  strPtr("kept"),
		Technologies: &models.StringList{"go"},
	})
	require.NoError(t, err)

	updated, err := store.Projects().Update(ctx, project.ID, models.ProjectPatch{
		Title:        strPtr("New"),
		Technologies: &models.StringList{"go", "htmx"},
	})
	require.NoError(t, err)
	assert.Equal(t, project.ID, updated.ID)
	assert.Equal(t, "New", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "kept", *updated.Description)
	assert.Equal(t, models.StringList{"go", "htmx"}, updated.Technologies)
}

func testPatchClearsNullable(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	featured := true
	project, err := store.Projects().Create(ctx, models.ProjectInput{
		Title:       "Site",
		Period:      strPtr("2024"),
		Description: strPtr("old"),
		Image:       strPtr("/a.png"),
		Featured:    &featured,
	})
	require.NoError(t, err)

	updated, err := store.Projects().Update(ctx, project.ID, models.ProjectPatch{
		Description: models.Null[string](),
		Image:       models.Null[string](),
		Featured:    models.Null[bool](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.Image)
	assert.Nil(t, updated.Featured)
	require.NotNil(t, updated.Period)
	assert.Equal(t, "2024", *updated.Period)

	got, err := store.Projects().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = store.ContactInfo().Upsert(ctx, models.ContactInfoPatch{
		Email: models.Present("me@example.com"),
		Phone: models.Present("555"),
	})
	require.NoError(t, err)
	info, err := store.ContactInfo().Upsert(ctx, models.ContactInfoPatch{Email: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, info.Email)
	require.NotNil(t, info.Phone)
	assert.Equal(t, "555", *info.Phone)
}

func testUpdateMissing(t *testing.T, store storage.Storage) {
	_, err := store.Projects().Update(context.Background(), 4242, models.ProjectPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDelete(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	projects := createProjects(t, store, "one", "two")

	require.NoError(t, store.Projects().Delete(ctx, projects[0].ID))
	_, err := store.Projects().Get(ctx, projects[0].ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.Projects().Delete(ctx, projects[0].ID), storage.ErrNotFound)

	listed, err := store.Projects().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{projects[1].ID}, ids(listed, projectID))

	again, err := store.Projects().Create(ctx, models.ProjectInput{Title: "three"})
	require.NoError(t, err)
	assert.NotEqual(t, projects[0].ID, again.ID)
}

func testCascade(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	doomed, err := store.SkillCategories().Create(ctx, models.SkillCategoryInput{Name: "Frontend", Icon: "layout"})
	require.NoError(t, err)
	kept, err := store.SkillCategories().Create(ctx, models.SkillCategoryInput{Name: "Backend", Icon: "server"})
	require.NoError(t, err)

	var doomedSkills []models.Skill
	for _, name := range []string{"React", "CSS", "TypeScript"} {
		skill, err := store.Skills().Create(ctx, models.SkillInput{Name: name, Level: 70, CategoryID: doomed.ID})
		require.NoError(t, err)
		doomedSkills = append(doomedSkills, skill)
	}
	survivor, err := store.Skills().Create(ctx, models.SkillInput{Name: "Go", Level: 90, CategoryID: kept.ID})
	require.NoError(t, err)

	require.NoError(t, store.SkillCategories().Delete(ctx, doomed.ID))

	for _, skill := range doomedSkills {
		_, err := store.Skills().Get(ctx, skill.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
	got, err := store.Skills().Get(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, survivor, got)

	listed, err := store.Skills().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Skill{survivor}, listed)
}

func testSkillReference(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	_, err := store.Skills().Create(ctx, models.SkillInput{Name: "Go", Level: 90, CategoryID: 777})
	assert.ErrorIs(t, err, storage.ErrInvalidReference)

	category, err := store.SkillCategories().Create(ctx, models.SkillCategoryInput{Name: "Backend", Icon: "server"})
	require.NoError(t, err)
	skill, err := store.Skills().Create(ctx, models.SkillInput{Name: "Go", Level: 90, CategoryID: category.ID})
	require.NoError(t, err)

	_, err = store.Skills().Update(ctx, skill.ID, models.SkillPatch{CategoryID: intPtr(777)})
	assert.ErrorIs(t, err, storage.ErrInvalidReference)

	got, err := store.Skills().Get(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, got.CategoryID)
}

func testListByCategory(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	first, err := store.SkillCategories().Create(ctx, models.SkillCategoryInput{Name: "A", Icon: "a"})
	require.NoError(t, err)
	second, err := store.SkillCategories().Create(ctx, models.SkillCategoryInput{Name: "B", Icon: "b"})
	require.NoError(t, err)

	a1, err := store.Skills().Create(ctx, models.SkillInput{Name: "a1", Level: 10, CategoryID: first.ID})
	require.NoError(t, err)
	_, err = store.Skills().Create(ctx, models.SkillInput{Name: "b1", Level: 20, CategoryID: second.ID})
	require.NoError(t, err)
	a2, err := store.Skills().Create(ctx, models.SkillInput{Name: "a2", Level: 30, CategoryID: first.ID})
	require.NoError(t, err)

	listed, err := store.Skills().ListByCategory(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Skill{a1, a2}, listed)

	none, err := store.Skills().ListByCategory(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testReorder(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	projects := createProjects(t, store, "one", "two", "three")
	p1, p2, p3 := projects[0].ID, projects[1].ID, projects[2].ID

	reordered, err := store.Projects().Reorder(ctx, []int{p3, p1, p2})
	require.NoError(t, err)
	assert.Equal(t, []int{p3, p1, p2}, ids(reordered, projectID))

	want := map[int]int{p3: 0, p1: 1, p2: 2}
	for id, order := range want {
		got, err := store.Projects().Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, order, got.DisplayOrder, "project %d", id)
	}

	listed, err := store.Projects().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{p3, p1, p2}, ids(listed, projectID))
}

func testReorderUnknown(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	projects := createProjects(t, store, "one", "two", "three")
	before, err := store.Projects().List(ctx)
	require.NoError(t, err)

	_, err = store.Projects().Reorder(ctx, []int{projects[2].ID, projects[0].ID, 999})
	var missing *storage.MissingIDError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 999, missing.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	after, err := store.Projects().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func testReorderOtherKinds(t *testing.T, store storage.Storage) {
	ctx := context.Background()

	c1, err := store.SkillCategories().Create(ctx, models.SkillCategoryInput{Name: "A", Icon: "a"})
	require.NoError(t, err)
	c2, err := store.SkillCategories().Create(ctx, models.SkillCategoryInput{Name: "B", Icon: "b"})
	require.NoError(t, err)
	categories, err := store.SkillCategories().Reorder(ctx, []int{c2.ID, c1.ID})
	require.NoError(t, err)
	assert.Equal(t, []int{c2.ID, c1.ID}, ids(categories, func(c models.SkillCategory) int { return c.ID }))

	e1, err := store.Education().Create(ctx, models.EducationInput{Degree: "BSc", Institution: "U"})
	require.NoError(t, err)
	e2, err := store.Education().Create(ctx, models.EducationInput{Degree: "MSc", Institution: "U"})
	require.NoError(t, err)
	education, err := store.Education().Reorder(ctx, []int{e2.ID, e1.ID})
	require.NoError(t, err)
	assert.Equal(t, []int{e2.ID, e1.ID}, ids(education, func(e models.Education) int { return e.ID }))

	o1, err := store.OpenSource().Create(ctx, models.OpenSourceContributionInput{Title: "x"})
	require.NoError(t, err)
	o2, err := store.OpenSource().Create(ctx, models.OpenSourceContributionInput{Title: "y"})
	require.NoError(t, err)
	contributions, err := store.OpenSource().Reorder(ctx, []int{o2.ID, o1.ID})
	require.NoError(t, err)
	assert.Equal(t, []int{o2.ID, o1.ID}, ids(contributions, func(o models.OpenSourceContribution) int { return o.ID }))
}

func testSingletonDefaults(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		settings, err := store.Settings().Get(ctx)
		require.NoError(t, err)
		assert.Zero(t, settings.ID)
		assert.Equal(t, "#3b82f6", settings.Primary)
		assert.Equal(t, "professional", settings.Variant)
		assert.Equal(t, "system", settings.Appearance)
		assert.Equal(t, 8, settings.Radius)
	}

	about, err := store.About().Get(ctx)
	require.NoError(t, err)
	assert.Zero(t, about.ID)
	assert.Equal(t, models.StringList{}, about.Traits)

	info, err := store.ContactInfo().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ContactInfo{}, info)
}

func testSingletonUpsert(t *testing.T, store storage.Storage) {
	ctx := context.Background()

	first, err := store.Settings().Upsert(ctx, models.PortfolioSettingsPatch{Primary: strPtr("#ff0000")})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "#ff0000", first.Primary)
	assert.Equal(t, "professional", first.Variant)

	second, err := store.Settings().Upsert(ctx, models.PortfolioSettingsPatch{Radius: intPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "#ff0000", second.Primary)
	assert.Equal(t, 12, second.Radius)

	got, err := store.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, 12, got.Radius)

	about, err := store.About().Upsert(ctx, models.AboutContentPatch{Traits: &models.StringList{"curious"}})
	require.NoError(t, err)
	aboutAgain, err := store.About().Upsert(ctx, models.AboutContentPatch{Quote: models.Present("ship it")})
	require.NoError(t, err)
	assert.Equal(t, about.ID, aboutAgain.ID)
	assert.Equal(t, models.StringList{"curious"}, aboutAgain.Traits)

	info, err := store.ContactInfo().Upsert(ctx, models.ContactInfoPatch{Email: models.Present("me@example.com")})
	require.NoError(t, err)
	infoAgain, err := store.ContactInfo().Upsert(ctx, models.ContactInfoPatch{})
	require.NoError(t, err)
	assert.Equal(t, info, infoAgain)
}

func testUsers(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	user, err := store.Users().Create(ctx, models.UserInput{Username: "editor", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsAdmin)
	assert.False(t, user.CreatedAt.IsZero())

	_, err = store.Users().Create(ctx, models.UserInput{Username: "editor", Password: "other"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	valid, err := store.Users().Validate(ctx, "editor", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, valid.ID)

	_, err = store.Users().Validate(ctx, "editor", "wrong")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
	_, err = store.Users().Validate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)

	byName, err := store.Users().GetByUsername(ctx, "editor")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	_, err = store.Users().Get(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	hasAdmin, err := store.Users().HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, hasAdmin)
}

func testInitialize(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	seed := storage.AdminSeed{Username: "admin", Password: "admin123", SiteTitle: "Jane Doe"}

	require.NoError(t, store.InitializeDatabase(ctx, seed))
	settings, err := store.Settings().Get(ctx)
	require.NoError(t, err)
	assert.NotZero(t, settings.ID)
	assert.Equal(t, "Jane Doe", settings.SiteTitle)

	_, err = store.Settings().Upsert(ctx, models.PortfolioSettingsPatch{Variant: strPtr("vibrant")})
	require.NoError(t, err)

	require.NoError(t, store.InitializeDatabase(ctx, seed))
	require.NoError(t, store.InitializeDatabase(ctx, storage.AdminSeed{Username: "root", Password: "x"}))

	again, err := store.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
	assert.Equal(t, "vibrant", again.Variant)

	admin, err := store.Users().Validate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	_, err = store.Users().GetByUsername(ctx, "root")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testPing(t *testing.T, store storage.Storage) {
	assert.NoError(t, store.Ping(context.Background()))
}
