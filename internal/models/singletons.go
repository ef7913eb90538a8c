package models

import "time"

const (
	DefaultPrimaryColor = "#3b82f6"
	DefaultVariant      = "professional"
	DefaultAppearance   = "system"
	DefaultRadius       = 8
	DefaultSiteTitle    = "My Portfolio"
)

type PortfolioSettings struct {
	ID         int       `db:"id" json:"id"`
	Primary    string    `db:"primary_color" json:"primary"`
	Variant    string    `db:"variant" json:"variant"`
	Appearance string    `db:"appearance" json:"appearance"`
	Radius     int       `db:"radius" json:"radius"`
	SiteTitle  string    `db:"site_title" json:"siteTitle"`
	Logo       *string   `db:"logo" json:"logo"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type PortfolioSettingsPatch struct {
	Primary    *string          `json:"primary" validate:"omitnil,hexcolor,max=50"`
	Variant    *string          `json:"variant" validate:"omitnil,oneof=professional tint vibrant"`
	Appearance *string          `json:"appearance" validate:"omitnil,oneof=light dark system"`
	Radius     *int             `json:"radius" validate:"omitnil,min=0,max=20"`
	SiteTitle  *string          `json:"siteTitle" validate:"omitnil,min=1,max=100"`
	Logo       Nullable[string] `json:"logo" validate:"omitnil,max=255"`
}

// DefaultPortfolioSettings returns the settings served before any row exists.
func DefaultPortfolioSettings(siteTitle string) PortfolioSettings {
	if siteTitle == "" {
		siteTitle = DefaultSiteTitle
	}
	return PortfolioSettings{
		Primary:    DefaultPrimaryColor,
		Variant:    DefaultVariant,
		Appearance: DefaultAppearance,
		Radius:     DefaultRadius,
		SiteTitle:  siteTitle,
	}
}

func (p PortfolioSettingsPatch) ApplyTo(s *PortfolioSettings) {
	setString(&s.Primary, p.Primary)
	setString(&s.Variant, p.Variant)
	setString(&s.Appearance, p.Appearance)
	setInt(&s.Radius, p.Radius)
	setString(&s.SiteTitle, p.SiteTitle)
	setNullable(&s.Logo, p.Logo)
}

type AboutContent struct {
	ID             int        `db:"id" json:"id"`
	JourneyText    *string    `db:"journey_text" json:"journeyText"`
	Quote          *string    `db:"quote" json:"quote"`
	ExpertiseItems StringList `db:"expertise_items" json:"expertiseItems"`
	Traits         StringList `db:"traits" json:"traits"`
}

type AboutContentPatch struct {
	JourneyText    Nullable[string] `json:"journeyText"`
	Quote          Nullable[string] `json:"quote"`
	ExpertiseItems *StringList      `json:"expertiseItems"`
	Traits         *StringList      `json:"traits"`
}

func DefaultAboutContent() AboutContent {
	return AboutContent{ExpertiseItems: StringList{}, Traits: StringList{}}
}

func (p AboutContentPatch) ApplyTo(a *AboutContent) {
	setNullable(&a.JourneyText, p.JourneyText)
	setNullable(&a.Quote, p.Quote)
	setList(&a.ExpertiseItems, p.ExpertiseItems)
	setList(&a.Traits, p.Traits)
}

type ContactInfo struct {
	ID            int     `db:"id" json:"id"`
	Email         *string `db:"email" json:"email"`
	Phone         *string `db:"phone" json:"phone"`
	Location      *string `db:"location" json:"location"`
	Github        *string `db:"github" json:"github"`
	Linkedin      *string `db:"linkedin" json:"linkedin"`
	Stackoverflow *string `db:"stackoverflow" json:"stackoverflow"`
}

type ContactInfoPatch struct {
	Email         Nullable[string] `json:"email" validate:"omitnil,max=255"`
	Phone         Nullable[string] `json:"phone" validate:"omitnil,max=50"`
	Location      Nullable[string] `json:"location" validate:"omitnil,max=100"`
	Github        Nullable[string] `json:"github" validate:"omitnil,max=255"`
	Linkedin      Nullable[string] `json:"linkedin" validate:"omitnil,max=255"`
	Stackoverflow Nullable[string] `json:"stackoverflow" validate:"omitnil,max=255"`
}

func DefaultContactInfo() ContactInfo {
	return ContactInfo{}
}

func (p ContactInfoPatch) ApplyTo(c *ContactInfo) {
	setNullable(&c.Email, p.Email)
	setNullable(&c.Phone, p.Phone)
	setNullable(&c.Location, p.Location)
	setNullable(&c.Github, p.Github)
	setNullable(&c.Linkedin, p.Linkedin)
	setNullable(&c.Stackoverflow, p.Stackoverflow)
}

func (s *PortfolioSettings) GetID() int   { return s.ID }
func (s *PortfolioSettings) SetID(id int) { s.ID = id }
func (a *AboutContent) GetID() int        { return a.ID }
func (a *AboutContent) SetID(id int)      { a.ID = id }
func (c *ContactInfo) GetID() int         { return c.ID }
func (c *ContactInfo) SetID(id int)       { c.ID = id }
