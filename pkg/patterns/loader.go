package patterns

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"logsift/internal/logger"
)

//go:embed defaults/*.yaml
var builtinFS embed.FS

// ErrInvalidDocument marks a rule-set document that failed validation.
var ErrInvalidDocument = errors.New("invalid pattern document")

// Catalog is the full set of loaded detection rules, grouped by
// category. Immutable once loaded, safe to share across concurrent
// analyses.
type Catalog struct {
	categories []string
	byCategory map[string][]Pattern
}

// LoadBuiltin loads the embedded rule sets. A malformed built-in
// document is a packaging defect and fails the load.
func LoadBuiltin() (*Catalog, error) {
	c := newCatalog()

	entries, err := fs.ReadDir(builtinFS, "defaults")
	if err != nil {
		return nil, fmt.Errorf("reading built-in pattern sets: %w", err)
	}

	for _, entry := range entries {
		data, err := fs.ReadFile(builtinFS, "defaults/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading built-in pattern set %s: %w", entry.Name(), err)
		}

		category := categoryName(entry.Name())
		patterns, err := parseDocument(data)
		if err != nil {
			return nil, fmt.Errorf("built-in pattern set %s: %w", category, err)
		}
		c.add(category, patterns)
	}

	return c, nil
}

// LoadUserDir loads custom rule sets from a directory of YAML files and
// merges them into the catalog. Malformed documents are skipped with a
// warning so user customization never breaks the built-in defaults. A
// missing directory is not an error.
func (c *Catalog) LoadUserDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading pattern directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided pattern dir is expected
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("skipping unreadable pattern file")
			continue
		}

		patterns, err := parseDocument(data)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("skipping invalid pattern file")
			continue
		}
		c.add(categoryName(name), patterns)
	}

	return nil
}

// ValidateFile checks a single rule-set document and returns its
// patterns, or the validation failure.
func ValidateFile(path string) ([]Pattern, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided pattern file is expected
	if err != nil {
		return nil, fmt.Errorf("reading pattern file: %w", err)
	}
	return parseDocument(data)
}

// All returns the loaded patterns grouped by category.
func (c *Catalog) All() map[string][]Pattern {
	result := make(map[string][]Pattern, len(c.byCategory))
	for category, patterns := range c.byCategory {
		result[category] = patterns
	}
	return result
}

// ByCategory returns the patterns in one category, or nil if the
// category was never loaded.
func (c *Catalog) ByCategory(name string) []Pattern {
	return c.byCategory[name]
}

// Categories returns the loaded category names in deterministic order.
func (c *Catalog) Categories() []string {
	return c.categories
}

// Flatten returns every pattern across all categories in catalog
// iteration order. The detector relies on this order being stable so
// repeated analyses of identical input are identical.
func (c *Catalog) Flatten() []Pattern {
	var all []Pattern
	for _, category := range c.categories {
		all = append(all, c.byCategory[category]...)
	}
	return all
}

// Len returns the total number of loaded patterns.
func (c *Catalog) Len() int {
	total := 0
	for _, patterns := range c.byCategory {
		total += len(patterns)
	}
	return total
}

func newCatalog() *Catalog {
	return &Catalog{byCategory: make(map[string][]Pattern)}
}

func (c *Catalog) add(category string, patterns []Pattern) {
	if _, exists := c.byCategory[category]; !exists {
		c.categories = append(c.categories, category)
		sort.Strings(c.categories)
	}
	c.byCategory[category] = append(c.byCategory[category], patterns...)
}

// parseDocument unmarshals and validates one rule-set document,
// compiling every regex. Any failure rejects the whole document.
func parseDocument(data []byte) ([]Pattern, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if len(doc.Patterns) == 0 {
		return nil, fmt.Errorf("%w: document has no patterns", ErrInvalidDocument)
	}

	seen := make(map[string]bool, len(doc.Patterns))
	for i := range doc.Patterns {
		p := &doc.Patterns[i]
		if err := validatePattern(p); err != nil {
			return nil, fmt.Errorf("%w: pattern %d (%s): %v", ErrInvalidDocument, i, p.Name, err)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: duplicate pattern name %q", ErrInvalidDocument, p.Name)
		}
		seen[p.Name] = true
	}

	return doc.Patterns, nil
}

func validatePattern(p *Pattern) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Regex == "" {
		return errors.New("regex is required")
	}
	if !p.Severity.Valid() {
		return fmt.Errorf("invalid severity %q (must be error, warning, or info)", p.Severity)
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if len(p.Tags) == 0 {
		return errors.New("tags must be a non-empty list")
	}

	compiled, err := regexp.Compile(p.Regex)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	p.compiled = compiled

	return nil
}

// categoryName derives the category from a rule-set file name.
func categoryName(filename string) string {
	return strings.TrimSuffix(strings.TrimSuffix(filename, ".yaml"), ".yml")
}
