package models

type SkillCategory struct {
	ID           int    `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Icon         string `db:"icon" json:"icon"`
	DisplayOrder int    `db:"display_order" json:"displayOrder"`
}

type SkillCategoryInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Icon         string `json:"icon" validate:"required,max=50"`
	DisplayOrder *int   `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
}

type SkillCategoryPatch struct {
	Name         *string `json:"name" validate:"omitnil,min=1,max=100"`
	Icon         *string `json:"icon" validate:"omitnil,min=1,max=50"`
	DisplayOrder *int    `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
}

func (in SkillCategoryInput) Build() SkillCategory {
	return SkillCategory{Name: in.Name, Icon: in.Icon, DisplayOrder: intOr(in.DisplayOrder, 0)}
}

func (p SkillCategoryPatch) ApplyTo(c *SkillCategory) {
	setString(&c.Name, p.Name)
	setString(&c.Icon, p.Icon)
	setInt(&c.DisplayOrder, p.DisplayOrder)
}

func (c *SkillCategory) GetID() int              { return c.ID }
func (c *SkillCategory) SetID(id int)            { c.ID = id }
func (c *SkillCategory) GetDisplayOrder() int    { return c.DisplayOrder }
func (c *SkillCategory) SetDisplayOrder(pos int) { c.DisplayOrder = pos }

type Skill struct {
	ID         int    `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Level      int    `db:"level" json:"level"`
	CategoryID int    `db:"category_id" json:"categoryId"`
}

type SkillInput struct {
	Name       string `json:"name" validate:"required,max=100"`
	Level      int    `json:"level" validate:"required,min=1,max=100"`
	CategoryID int    `json:"categoryId" validate:"required,min=1,max=2147483647"`
}

type SkillPatch struct {
	Name       *string `json:"name" validate:"omitnil,min=1,max=100"`
	Level      *int    `json:"level" validate:"omitnil,min=1,max=100"`
	CategoryID *int    `json:"categoryId" validate:"omitnil,min=1,max=2147483647"`
}

func (in SkillInput) Build() Skill {
	return Skill{Name: in.Name, Level: in.Level, CategoryID: in.CategoryID}
}

func (p SkillPatch) ApplyTo(s *Skill) {
	setString(&s.Name, p.Name)
	setInt(&s.Level, p.Level)
	setInt(&s.CategoryID, p.CategoryID)
}

func (s *Skill) GetID() int   { return s.ID }
func (s *Skill) SetID(id int) { s.ID = id }

type Education struct {
	ID           int        `db:"id" json:"id"`
	Degree       string     `db:"degree" json:"degree"`
	Institution  string     `db:"institution" json:"institution"`
	Location     *string    `db:"location" json:"location"`
	Period       *string    `db:"period" json:"period"`
	Description  *string    `db:"description" json:"description"`
	Courses      StringList `db:"courses" json:"courses"`
	Achievements *string    `db:"achievements" json:"achievements"`
	DisplayOrder int        `db:"display_order" json:"displayOrder"`
}

type EducationInput struct {
	Degree       string      `json:"degree" validate:"required,max=150"`
	Institution  string      `json:"institution" validate:"required,max=150"`
	Location     *string     `json:"location" validate:"omitnil,max=100"`
	Period       *string     `json:"period" validate:"omitnil,max=50"`
	Description  *string     `json:"description"`
	Courses      *StringList `json:"courses"`
	Achievements *string     `json:"achievements"`
	DisplayOrder *int        `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
}

type EducationPatch struct {
	Degree       *string          `json:"degree" validate:"omitnil,min=1,max=150"`
	Institution  *string          `json:"institution" validate:"omitnil,min=1,max=150"`
	Location     Nullable[string] `json:"location" validate:"omitnil,max=100"`
	Period       Nullable[string] `json:"period" validate:"omitnil,max=50"`
	Description  Nullable[string] `json:"description"`
	Courses      *StringList      `json:"courses"`
	Achievements Nullable[string] `json:"achievements"`
	DisplayOrder *int             `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
}

func (in EducationInput) Build() Education {
	return Education{
		Degree:       in.Degree,
		Institution:  in.Institution,
		Location:     optional(in.Location),
		Period:       optional(in.Period),
		Description:  optional(in.Description),
		Courses:      listOr(in.Courses),
		Achievements: optional(in.Achievements),
		DisplayOrder: intOr(in.DisplayOrder, 0),
	}
}

func (p EducationPatch) ApplyTo(e *Education) {
	setString(&e.Degree, p.Degree)
	setString(&e.Institution, p.Institution)
	setNullable(&e.Location, p.Location)
	setNullable(&e.Period, p.Period)
	setNullable(&e.Description, p.Description)
	setList(&e.Courses, p.Courses)
	setNullable(&e.Achievements, p.Achievements)
	setInt(&e.DisplayOrder, p.DisplayOrder)
}

func (e *Education) GetID() int              { return e.ID }
func (e *Education) SetID(id int)            { e.ID = id }
func (e *Education) GetDisplayOrder() int    { return e.DisplayOrder }
func (e *Education) SetDisplayOrder(pos int) { e.DisplayOrder = pos }

type Experience struct {
	ID               int        `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Company          string     `db:"company" json:"company"`
	Period           *string    `db:"period" json:"period"`
	Responsibilities StringList `db:"responsibilities" json:"responsibilities"`
	DisplayOrder     int        `db:"display_order" json:"displayOrder"`
}

type ExperienceInput struct {
	Title            string      `json:"title" validate:"required,max=150"`
	Company          string      `json:"company" validate:"required,max=150"`
	Period           *string     `json:"period" validate:"omitnil,max=50"`
	Responsibilities *StringList `json:"responsibilities"`
	DisplayOrder     *int        `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
}

type ExperiencePatch struct {
	Title            *string          `json:"title" validate:"omitnil,min=1,max=150"`
	Company          *string          `json:"company" validate:"omitnil,min=1,max=150"`
	Period           Nullable[string] `json:"period" validate:"omitnil,max=50"`
	Responsibilities *StringList      `json:"responsibilities"`
	DisplayOrder     *int             `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
}

func (in ExperienceInput) Build() Experience {
	return Experience{
		Title:            in.Title,
		Company:          in.Company,
		Period:           optional(in.Period),
		Responsibilities: listOr(in.Responsibilities),
		DisplayOrder:     intOr(in.DisplayOrder, 0),
	}
}

func (p ExperiencePatch) ApplyTo(e *Experience) {
	setString(&e.Title, p.Title)
	setString(&e.Company, p.Company)
	setNullable(&e.Period, p.Period)
	setList(&e.Responsibilities, p.Responsibilities)
	setInt(&e.DisplayOrder, p.DisplayOrder)
}

func (e *Experience) GetID() int              { return e.ID }
func (e *Experience) SetID(id int)            { e.ID = id }
func (e *Experience) GetDisplayOrder() int    { return e.DisplayOrder }
func (e *Experience) SetDisplayOrder(pos int) { e.DisplayOrder = pos }

type Project struct {
	ID           int        `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Period       *string    `db:"period" json:"period"`
	Description  *string    `db:"description" json:"description"`
	Technologies StringList `db:"technologies" json:"technologies"`
	Image        *string    `db:"image" json:"image"`
	DemoLink     *string    `db:"demo_link" json:"demoLink"`
	CodeLink     *string    `db:"code_link" json:"codeLink"`
	DisplayOrder int        `db:"display_order" json:"displayOrder"`
	Featured     *bool      `db:"featured" json:"featured"`
}

type ProjectInput struct {
	Title        string      `json:"title" validate:"required,max=150"`
	Period       *string     `json:"period" validate:"omitnil,max=50"`
	Description  *string     `json:"description"`
	Technologies *StringList `json:"technologies"`
	Image        *string     `json:"image" validate:"omitnil,max=255"`
	DemoLink     *string     `json:"demoLink" validate:"omitnil,max=255"`
	CodeLink     *string     `json:"codeLink" validate:"omitnil,max=255"`
	DisplayOrder *int        `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
	Featured     *bool       `json:"featured"`
}

type ProjectPatch struct {
	Title        *string          `json:"title" validate:"omitnil,min=1,max=150"`
	Period       Nullable[string] `json:"period" validate:"omitnil,max=50"`
	Description  Nullable[string] `json:"description"`
	Technologies *StringList      `json:"technologies"`
	Image        Nullable[string] `json:"image" validate:"omitnil,max=255"`
	DemoLink     Nullable[string] `json:"demoLink" validate:"omitnil,max=255"`
	CodeLink     Nullable[string] `json:"codeLink" validate:"omitnil,max=255"`
	DisplayOrder *int             `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
	Featured     Nullable[bool]   `json:"featured"`
}

func (in ProjectInput) Build() Project {
	return Project{
		Title:        in.Title,
		Period:       optional(in.Period),
		Description:  optional(in.Description),
		Technologies: listOr(in.Technologies),
		Image:        optional(in.Image),
		DemoLink:     optional(in.DemoLink),
		CodeLink:     optional(in.CodeLink),
		DisplayOrder: intOr(in.DisplayOrder, 0),
		Featured:     optionalBool(in.Featured),
	}
}

func (p ProjectPatch) ApplyTo(pr *Project) {
	setString(&pr.Title, p.Title)
	setNullable(&pr.Period, p.Period)
	setNullable(&pr.Description, p.Description)
	setList(&pr.Technologies, p.Technologies)
	setNullable(&pr.Image, p.Image)
	setNullable(&pr.DemoLink, p.DemoLink)
	setNullable(&pr.CodeLink, p.CodeLink)
	setInt(&pr.DisplayOrder, p.DisplayOrder)
	setNullable(&pr.Featured, p.Featured)
}

func (pr *Project) GetID() int              { return pr.ID }
func (pr *Project) SetID(id int)            { pr.ID = id }
func (pr *Project) GetDisplayOrder() int    { return pr.DisplayOrder }
func (pr *Project) SetDisplayOrder(pos int) { pr.DisplayOrder = pos }

type OpenSourceContribution struct {
	ID           int     `db:"id" json:"id"`
	Title        string  `db:"title" json:"title"`
	Description  *string `db:"description" json:"description"`
	Link         *string `db:"link" json:"link"`
	LinkText     *string `db:"link_text" json:"linkText"`
	Icon         *string `db:"icon" json:"icon"`
	DisplayOrder int     `db:"display_order" json:"displayOrder"`
}

type OpenSourceContributionInput struct {
	Title        string  `json:"title" validate:"required,max=150"`
	Description  *string `json:"description"`
	Link         *string `json:"link" validate:"omitnil,max=255"`
	LinkText     *string `json:"linkText" validate:"omitnil,max=100"`
	Icon         *string `json:"icon" validate:"omitnil,max=50"`
	DisplayOrder *int    `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
}

type OpenSourceContributionPatch struct {
	Title        *string          `json:"title" validate:"omitnil,min=1,max=150"`
	Description  Nullable[string] `json:"description"`
	Link         Nullable[string] `json:"link" validate:"omitnil,max=255"`
	LinkText     Nullable[string] `json:"linkText" validate:"omitnil,max=100"`
	Icon         Nullable[string] `json:"icon" validate:"omitnil,max=50"`
	DisplayOrder *int             `json:"displayOrder" validate:"omitnil,min=0,max=2147483647"`
}

func (in OpenSourceContributionInput) Build() OpenSourceContribution {
	return OpenSourceContribution{
		Title:        in.Title,
		Description:  optional(in.Description),
		Link:         optional(in.Link),
		LinkText:     optional(in.LinkText),
		Icon:         optional(in.Icon),
		DisplayOrder: intOr(in.DisplayOrder, 0),
	}
}

func (p OpenSourceContributionPatch) ApplyTo(o *OpenSourceContribution) {
	setString(&o.Title, p.Title)
	setNullable(&o.Description, p.Description)
	setNullable(&o.Link, p.Link)
	setNullable(&o.LinkText, p.LinkText)
	setNullable(&o.Icon, p.Icon)
	setInt(&o.DisplayOrder, p.DisplayOrder)
}

func (o *OpenSourceContribution) GetID() int              { return o.ID }
func (o *OpenSourceContribution) SetID(id int)            { o.ID = id }
func (o *OpenSourceContribution) GetDisplayOrder() int    { return o.DisplayOrder }
func (o *OpenSourceContribution) SetDisplayOrder(pos int) { o.DisplayOrder = pos }

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func listOr(value *StringList) StringList {
	if value == nil {
		return StringList{}
	}
	return cloneList(*value)
}

func optionalBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func setInt(dst *int, value *int) {
	if value != nil {
		*dst = *value
	}
}

func setList(dst *StringList, value *StringList) {
	if value != nil {
		*dst = cloneList(*value)
	}
}
