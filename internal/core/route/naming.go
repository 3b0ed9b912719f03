package route

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/autofiler/autofiler/internal/core/domain"
)

// NamingDefaults configure how naming patterns resolve.
type NamingDefaults struct {
	// DateLayout is the Go time layout used for the {date} placeholder.
	DateLayout string `yaml:"date_layout"`
	Separator  string `yaml:"separator"`
	Lowercase  bool   `yaml:"lowercase"`
}

func (n NamingDefaults) withFallbacks() NamingDefaults {
	if n.DateLayout == "" {
		n.DateLayout = "2006-01-02"
	}
	if n.Separator == "" {
		n.Separator = "_"
	}
	return n
}

var placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)

var recognizedPlaceholders = map[string]bool{
	"{original_name}": true,
	"{date}":          true,
	"{type}":          true,
	"{counter}":       true,
	"{separator}":     true,
}

// illegal on Windows filesystems; stripped from resolved names.
const illegalNameChars = `<>:"/\|?*`

// ResolveName substitutes the recognized placeholders in a type's
// naming pattern and returns the filename stem (no extension).
// Recognized placeholders: {original_name}, {date}, {type}, {counter},
// {separator}. An unrecognized placeholder is a configuration error and
// is surfaced, never silently dropped.
func ResolveName(c domain.Candidate, t *domain.DocumentType, defaults NamingDefaults, counter int, now time.Time) (string, error) {
	defaults = defaults.withFallbacks()

	for _, ph := range placeholderRe.FindAllString(t.NamingPattern, -1) {
		if !recognizedPlaceholders[ph] {
			return "", domain.WrapError(domain.ErrConfiguration, "resolve naming pattern",
				fmt.Errorf("type %s: unrecognized placeholder %s", t.ID, ph))
		}
	}

	stem := strings.TrimSuffix(c.OriginalName, c.Extension)
	repl := strings.NewReplacer(
		"{original_name}", stem,
		"{date}", now.Format(defaults.DateLayout),
		"{type}", t.ID,
		"{counter}", fmt.Sprintf("%d", counter),
		"{separator}", defaults.Separator,
	)
	name := repl.Replace(t.NamingPattern)

	if defaults.Lowercase {
		name = strings.ToLower(name)
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalNameChars, r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name), nil
}
