// Package model defines the CV document structure shared by the editing
// state, the local draft store, and the remote document store, together with
// the normalization and comparison rules every persistence layer relies on.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultReferences is the references text a brand-new document starts with.
const DefaultReferences = "Available upon request."

// Skill categories. Any other value is rejected during normalization.
const (
	SkillCategoryTechnical    = "technical"
	SkillCategoryProfessional = "professional"
)

// PersonalInfo is the header block of the CV.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	JobTitle string `json:"jobTitle"`
	Summary  string `json:"summary"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// Experience is a single work-experience entry.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Education is a single education entry.
type Education struct {
	ID          string `json:"id"`
	School      string `json:"school"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Project is a single project entry.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	TechStack   string `json:"techStack"`
	Description string `json:"description"`
}

// Achievement is a single achievement entry.
type Achievement struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Date         string `json:"date"`
}

// Language is a single language entry.
type Language struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Skill is a single skill entry. Category is either empty or one of the
// SkillCategory constants.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// Document is the full CV: a personal-info record, six ordered entry
// sequences, and a free-text references field. A Document in circulation is
// always fully populated; partial data is normalized first (see Normalize).
type Document struct {
	PersonalInfo PersonalInfo  `json:"personalInfo"`
	Experience   []Experience  `json:"experience"`
	Education    []Education   `json:"education"`
	Projects     []Project     `json:"projects"`
	Achievements []Achievement `json:"achievements"`
	Languages    []Language    `json:"languages"`
	Skills       []Skill       `json:"skills"`
	References   string        `json:"references"`
}

// New returns the canonical all-fields-empty default Document.
func New() Document {
	return Document{
		Experience:   []Experience{},
		Education:    []Education{},
		Projects:     []Project{},
		Achievements: []Achievement{},
		Languages:    []Language{},
		Skills:       []Skill{},
		References:   DefaultReferences,
	}
}

// Entry constructors assign the stable unique identifier at creation time.
// Identifiers are never recomputed from content.

func NewExperience() Experience   { return Experience{ID: uuid.NewString()} }
func NewEducation() Education     { return Education{ID: uuid.NewString()} }
func NewProject() Project         { return Project{ID: uuid.NewString()} }
func NewAchievement() Achievement { return Achievement{ID: uuid.NewString()} }
func NewLanguage() Language       { return Language{ID: uuid.NewString()} }
func NewSkill() Skill             { return Skill{ID: uuid.NewString()} }

// HasContent reports whether the document carries anything worth persisting:
// at least one non-blank personal-info field or at least one entry in any
// sequence. The references text alone does not count, since every empty
// document carries the default.
func (d Document) HasContent() bool {
	for _, v := range []string{
		d.PersonalInfo.FullName, d.PersonalInfo.Email, d.PersonalInfo.Phone,
		d.PersonalInfo.Address, d.PersonalInfo.JobTitle, d.PersonalInfo.Summary,
		d.PersonalInfo.Website, d.PersonalInfo.LinkedIn, d.PersonalInfo.GitHub,
	} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return len(d.Experience) > 0 || len(d.Education) > 0 || len(d.Projects) > 0 ||
		len(d.Achievements) > 0 || len(d.Languages) > 0 || len(d.Skills) > 0
}

// Clone returns a deep copy. Persistence layers keep snapshots; the live
// editing state must never share slices with them.
func (d Document) Clone() Document {
	c := d
	c.Experience = append([]Experience{}, d.Experience...)
	c.Education = append([]Education{}, d.Education...)
	c.Projects = append([]Project{}, d.Projects...)
	c.Achievements = append([]Achievement{}, d.Achievements...)
	c.Languages = append([]Language{}, d.Languages...)
	c.Skills = append([]Skill{}, d.Skills...)
	return c
}
