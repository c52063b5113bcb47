package repository

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Dias221467/HabitFlow/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// TemplateRepository serves the onboarding templates shipped with the
// binary.
type TemplateRepository struct {
	templates []models.OnboardingTemplate
	byID      map[string]int
}

// NewTemplateRepository parses the embedded templates.
func NewTemplateRepository() (*TemplateRepository, error) {
	return LoadTemplates(templateFS)
}

// LoadTemplates parses every *.yaml file under templates/ in fsys.
func LoadTemplates(fsys fs.FS) (*TemplateRepository, error) {
	paths, err := fs.Glob(fsys, "templates/*.yaml")
	if err != nil {
		return nil, err
	}

	repo := &TemplateRepository{byID: map[string]int{}}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var templates []models.OnboardingTemplate
		if err := yaml.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for _, t := range templates {
			if _, dup := repo.byID[t.ID]; dup {
				return nil, fmt.Errorf("duplicate template id %q in %s", t.ID, path)
			}
			repo.byID[t.ID] = len(repo.templates)
			repo.templates = append(repo.templates, t)
		}
	}
	return repo, nil
}

func (r *TemplateRepository) GetAllTemplates() []models.OnboardingTemplate {
	return append([]models.OnboardingTemplate(nil), r.templates...)
}

func (r *TemplateRepository) GetTemplateByID(id string) (*models.OnboardingTemplate, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := r.templates[i]
	return &t, nil
}
