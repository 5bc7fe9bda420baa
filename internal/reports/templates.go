package reports

import (
	"fmt"
	"os"
	"path/filepath"
)

// TemplateLoader handles loading HTML templates and CSS styles
type TemplateLoader struct{}

// NewTemplateLoader creates a new template loader
func NewTemplateLoader() *TemplateLoader {
	return &TemplateLoader{}
}

// load reads a named file from the templates directory. Candidate paths cover
// running from the repository root, from a package directory during tests,
// and from a cmd directory.
func (t *TemplateLoader) load(name string) (string, error) {
	candidates := []string{
		filepath.Join("internal", "templates", name),
		filepath.Join("..", "templates", name),
		filepath.Join("..", "..", "internal", "templates", name),
	}
	for _, path := range candidates {
		if content, err := os.ReadFile(path); err == nil {
			return string(content), nil
		}
	}
	return "", fmt.Errorf("template %s not found", name)
}

// LoadHTMLTemplate loads the report page template
func (t *TemplateLoader) LoadHTMLTemplate() (string, error) {
	return t.load("report_template.html")
}

// LoadCSSStyles loads the shared stylesheet
func (t *TemplateLoader) LoadCSSStyles() (string, error) {
	return t.load("styles.css")
}

// LoadInitialPage loads the live dashboard template
func (t *TemplateLoader) LoadInitialPage() (string, error) {
	return t.load("initial_page.html")
}
