package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cvkeeper/internal/common"
	"cvkeeper/internal/model"
)

// Show prints a summary of the live CV.
func (a *App) Show(ctx context.Context) error {
	doc := a.engine.Live()

	fmt.Println("Personal info:")
	printField("Full name", doc.PersonalInfo.FullName)
	printField("Job title", doc.PersonalInfo.JobTitle)
	printField("Email", doc.PersonalInfo.Email)
	printField("Phone", doc.PersonalInfo.Phone)
	printField("Address", doc.PersonalInfo.Address)
	printField("Website", doc.PersonalInfo.Website)
	printField("LinkedIn", doc.PersonalInfo.LinkedIn)
	printField("GitHub", doc.PersonalInfo.GitHub)
	printField("Summary", doc.PersonalInfo.Summary)

	fmt.Println("Sections:")
	fmt.Printf("  experience: %d  education: %d  projects: %d\n",
		len(doc.Experience), len(doc.Education), len(doc.Projects))
	fmt.Printf("  achievements: %d  languages: %d  skills: %d\n",
		len(doc.Achievements), len(doc.Languages), len(doc.Skills))

	for _, e := range doc.Experience {
		fmt.Printf("  [exp] %s — %s (%s – %s)\n", e.Company, e.Role, e.StartDate, endDate(e.EndDate, e.Current))
	}
	for _, e := range doc.Education {
		fmt.Printf("  [edu] %s — %s\n", e.School, e.Degree)
	}
	for _, p := range doc.Projects {
		fmt.Printf("  [prj] %s (%s)\n", p.Title, p.TechStack)
	}
	for _, s := range doc.Skills {
		fmt.Printf("  [skl] %s %s\n", s.Name, s.Category)
	}

	printField("References", doc.References)
	return nil
}

func printField(name, value string) {
	if value != "" {
		fmt.Printf("  %s: %s\n", name, value)
	}
}

func endDate(end string, current bool) string {
	if current {
		return "present"
	}
	return end
}

// EditPersonal walks through the personal-info fields. An empty answer keeps
// the current value.
func (a *App) EditPersonal(ctx context.Context) error {
	doc := a.engine.Live()
	pi := &doc.PersonalInfo

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &pi.FullName},
		{"Job title", &pi.JobTitle},
		{"Email", &pi.Email},
		{"Phone", &pi.Phone},
		{"Address", &pi.Address},
		{"Website", &pi.Website},
		{"LinkedIn", &pi.LinkedIn},
		{"GitHub", &pi.GitHub},
		{"Summary", &pi.Summary},
	}

	for _, f := range fields {
		prompt := f.prompt
		if *f.dst != "" {
			prompt = fmt.Sprintf("%s [%s]", f.prompt, *f.dst)
		}
		v, err := getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}

	a.engine.Edit(func(d *model.Document) { d.PersonalInfo = *pi })
	a.engine.SaveToDraft(ctx)
	return nil
}

// AddEntry prompts for the fields of one entry and appends it to the named
// section.
func (a *App) AddEntry(ctx context.Context, section string) error {
	var err error
	switch section {
	case "experience", "exp":
		err = a.addExperience(ctx)
	case "education", "edu":
		err = a.addEducation(ctx)
	case "project", "prj":
		err = a.addProject(ctx)
	case "achievement", "ach":
		err = a.addAchievement(ctx)
	case "language", "lang":
		err = a.addLanguage(ctx)
	case "skill", "skl":
		err = a.addSkill(ctx)
	default:
		fmt.Println("Unknown section:", section)
		return nil
	}
	if err != nil {
		return err
	}
	a.engine.SaveToDraft(ctx)
	return nil
}

func (a *App) addExperience(_ context.Context) error {
	e := model.NewExperience()
	var err error
	if e.Company, err = getSimpleText(a.reader, "Company", os.Stdout); err != nil {
		return err
	}
	if e.Role, err = getSimpleText(a.reader, "Role", os.Stdout); err != nil {
		return err
	}
	if e.StartDate, err = getSimpleText(a.reader, "Start date (YYYY-MM)", os.Stdout); err != nil {
		return err
	}
	if e.EndDate, err = getSimpleText(a.reader, "End date (YYYY-MM, empty if current)", os.Stdout); err != nil {
		return err
	}
	e.Current = e.EndDate == ""
	if e.Description, err = GetMultiline(a.reader, "Description", os.Stdout); err != nil {
		return err
	}
	a.engine.Edit(func(d *model.Document) { d.Experience = append(d.Experience, e) })
	return nil
}

func (a *App) addEducation(_ context.Context) error {
	e := model.NewEducation()
	var err error
	if e.School, err = getSimpleText(a.reader, "School", os.Stdout); err != nil {
		return err
	}
	if e.Degree, err = getSimpleText(a.reader, "Degree", os.Stdout); err != nil {
		return err
	}
	if e.StartDate, err = getSimpleText(a.reader, "Start date (YYYY-MM)", os.Stdout); err != nil {
		return err
	}
	if e.EndDate, err = getSimpleText(a.reader, "End date (YYYY-MM)", os.Stdout); err != nil {
		return err
	}
	a.engine.Edit(func(d *model.Document) { d.Education = append(d.Education, e) })
	return nil
}

func (a *App) addProject(_ context.Context) error {
	p := model.NewProject()
	var err error
	if p.Title, err = getSimpleText(a.reader, "Title", os.Stdout); err != nil {
		return err
	}
	if p.Date, err = getSimpleText(a.reader, "Date", os.Stdout); err != nil {
		return err
	}
	if p.TechStack, err = getSimpleText(a.reader, "Tech stack", os.Stdout); err != nil {
		return err
	}
	if p.Description, err = GetMultiline(a.reader, "Description", os.Stdout); err != nil {
		return err
	}
	a.engine.Edit(func(d *model.Document) { d.Projects = append(d.Projects, p) })
	return nil
}

func (a *App) addAchievement(_ context.Context) error {
	ach := model.NewAchievement()
	var err error
	if ach.Title, err = getSimpleText(a.reader, "Title", os.Stdout); err != nil {
		return err
	}
	if ach.Organization, err = getSimpleText(a.reader, "Organization", os.Stdout); err != nil {
		return err
	}
	if ach.Date, err = getSimpleText(a.reader, "Date", os.Stdout); err != nil {
		return err
	}
	a.engine.Edit(func(d *model.Document) { d.Achievements = append(d.Achievements, ach) })
	return nil
}

func (a *App) addLanguage(_ context.Context) error {
	l := model.NewLanguage()
	var err error
	if l.Name, err = getSimpleText(a.reader, "Language", os.Stdout); err != nil {
		return err
	}
	if l.Proficiency, err = getSimpleText(a.reader, "Proficiency", os.Stdout); err != nil {
		return err
	}
	a.engine.Edit(func(d *model.Document) { d.Languages = append(d.Languages, l) })
	return nil
}

func (a *App) addSkill(_ context.Context) error {
	s := model.NewSkill()
	var err error
	if s.Name, err = getSimpleText(a.reader, "Skill", os.Stdout); err != nil {
		return err
	}
	if s.Description, err = getSimpleText(a.reader, "Description", os.Stdout); err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (technical/professional, empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	switch category {
	case "", model.SkillCategoryTechnical, model.SkillCategoryProfessional:
		s.Category = category
	default:
		fmt.Println("Unknown category, leaving empty:", category)
	}
	a.engine.Edit(func(d *model.Document) { d.Skills = append(d.Skills, s) })
	return nil
}

// EditReferences replaces the references text.
func (a *App) EditReferences(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "References", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		text = model.DefaultReferences
	}
	a.engine.Edit(func(d *model.Document) { d.References = text })
	a.engine.SaveToDraft(ctx)
	return nil
}

// SaveDraft persists the live state to the local draft immediately.
func (a *App) SaveDraft(ctx context.Context) error {
	a.engine.SaveToDraft(ctx)
	fmt.Println("Draft saved.")
	return nil
}

// Save pushes the live state to the cloud. A guest is told to sign in; the
// draft safety net has already been written by then.
func (a *App) Save(ctx context.Context) error {
	ok, err := a.engine.SaveToCloud(ctx)
	switch {
	case ok:
		fmt.Println("Saved to cloud.")
	case errors.Is(err, common.ErrSignInRequired):
		fmt.Println("Draft saved locally. Log in to save to the cloud.")
	case err != nil:
		fmt.Println("Cloud save failed, your draft is safe locally:", err)
	}
	return err
}

// ShowStatus prints the save indicator and whether a local draft is pending.
func (a *App) ShowStatus(ctx context.Context) error {
	fmt.Println("Status:", a.engine.Status())
	fmt.Println("Pending local draft:", a.engine.HasPendingSave(ctx))
	if a.engine.PendingConflict() != nil {
		fmt.Println("A draft/cloud conflict is pending. Run 'conflicts' to review it.")
	}
	return nil
}
