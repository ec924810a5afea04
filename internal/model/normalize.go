package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cvkeeper/internal/common"
)

// Shadow structs used only for decoding untrusted payloads. Pointer fields
// distinguish "absent" (backfilled with the default) from "present but empty"
// (kept as-is). Entry ids have no default: an entry without an id is invalid.

type personalInfoJSON struct {
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

type experienceJSON struct {
	ID          *string `json:"id"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Current     bool    `json:"current"`
	Description string  `json:"description"`
}

type educationJSON struct {
	ID          *string `json:"id"`
	School      string  `json:"school"`
	Degree      string  `json:"degree"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Description string  `json:"description"`
}

type projectJSON struct {
	ID          *string `json:"id"`
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	TechStack   string  `json:"techStack"`
	Description string  `json:"description"`
}

type achievementJSON struct {
	ID           *string `json:"id"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Date         string  `json:"date"`
}

type languageJSON struct {
	ID          *string `json:"id"`
	Name        string  `json:"name"`
	Proficiency string  `json:"proficiency"`
}

type skillJSON struct {
	ID          *string `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
}

type documentJSON struct {
	PersonalInfo personalInfoJSON  `json:"personalInfo"`
	Experience   []experienceJSON  `json:"experience"`
	Education    []educationJSON   `json:"education"`
	Projects     []projectJSON     `json:"projects"`
	Achievements []achievementJSON `json:"achievements"`
	Languages    []languageJSON    `json:"languages"`
	Skills       []skillJSON       `json:"skills"`
	References   *string           `json:"references"`
}

// Normalize validates a candidate payload and backfills missing fields from
// the canonical default Document.
//
// The two steps are distinct and both mandatory: validation fails closed (a
// structurally wrong payload yields no Document at all, wrapped in
// common.ErrValidation), while a valid payload is always deep-merged onto
// New() so that fields absent in older stored data come back populated.
// Unknown fields are ignored, missing ones default; a wrong structural type
// anywhere (a string where a sequence is expected, a missing entry id, an
// unrecognized skill category) rejects the whole candidate.
func Normalize(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Document{}, fmt.Errorf("%w: empty payload", common.ErrValidation)
	}

	var dj documentJSON
	if err := json.Unmarshal(trimmed, &dj); err != nil {
		return Document{}, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	doc := New()
	doc.PersonalInfo = PersonalInfo(dj.PersonalInfo)

	for _, e := range dj.Experience {
		if e.ID == nil {
			return Document{}, fmt.Errorf("%w: experience entry without id", common.ErrValidation)
		}
		doc.Experience = append(doc.Experience, Experience{
			ID: *e.ID, Company: e.Company, Role: e.Role,
			StartDate: e.StartDate, EndDate: e.EndDate,
			Current: e.Current, Description: e.Description,
		})
	}
	for _, e := range dj.Education {
		if e.ID == nil {
			return Document{}, fmt.Errorf("%w: education entry without id", common.ErrValidation)
		}
		doc.Education = append(doc.Education, Education{
			ID: *e.ID, School: e.School, Degree: e.Degree,
			StartDate: e.StartDate, EndDate: e.EndDate, Description: e.Description,
		})
	}
	for _, p := range dj.Projects {
		if p.ID == nil {
			return Document{}, fmt.Errorf("%w: project entry without id", common.ErrValidation)
		}
		doc.Projects = append(doc.Projects, Project{
			ID: *p.ID, Title: p.Title, Date: p.Date,
			TechStack: p.TechStack, Description: p.Description,
		})
	}
	for _, a := range dj.Achievements {
		if a.ID == nil {
			return Document{}, fmt.Errorf("%w: achievement entry without id", common.ErrValidation)
		}
		doc.Achievements = append(doc.Achievements, Achievement{
			ID: *a.ID, Title: a.Title, Organization: a.Organization, Date: a.Date,
		})
	}
	for _, l := range dj.Languages {
		if l.ID == nil {
			return Document{}, fmt.Errorf("%w: language entry without id", common.ErrValidation)
		}
		doc.Languages = append(doc.Languages, Language{
			ID: *l.ID, Name: l.Name, Proficiency: l.Proficiency,
		})
	}
	for _, s := range dj.Skills {
		if s.ID == nil {
			return Document{}, fmt.Errorf("%w: skill entry without id", common.ErrValidation)
		}
		category := ""
		if s.Category != nil {
			if *s.Category != SkillCategoryTechnical && *s.Category != SkillCategoryProfessional {
				return Document{}, fmt.Errorf("%w: unknown skill category %q", common.ErrValidation, *s.Category)
			}
			category = *s.Category
		}
		doc.Skills = append(doc.Skills, Skill{
			ID: *s.ID, Name: s.Name, Description: s.Description, Category: category,
		})
	}

	if dj.References != nil {
		doc.References = *dj.References
	}

	return doc, nil
}
