// Package export renders cases and detection results into downloadable
// reports: a plain-text summary and a paginated PDF.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/casebook/internal/atomicfile"
	"github.com/aretw0/casebook/pkg/core"
)

// DateLayout formats every timestamp printed in a report.
const DateLayout = "2006-01-02 15:04:05 MST"

const (
	NoObjects     = "No objects detected"
	NoDescription = "No description available"
)

var rule = strings.Repeat("-", 40)

// PlainText renders c as a text report. It is pure: generatedAt is printed
// as given (and omitted when zero) so identical input yields identical bytes.
func PlainText(c core.Case, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("CASE REPORT\n")
	fmt.Fprintf(&b, "Case: %s\n", c.Name)
	fmt.Fprintf(&b, "Date: %s\n", c.CreatedAt.Format(DateLayout))
	if !generatedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", generatedAt.Format(DateLayout))
	}

	b.WriteString(rule + "\n")
	b.WriteString("Description:\n")
	if strings.TrimSpace(c.Description) == "" {
		b.WriteString(NoDescription + "\n")
	} else {
		b.WriteString(c.Description + "\n")
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Detected Objects (%d):\n", len(c.DetectedObjects))
	if len(c.DetectedObjects) == 0 {
		b.WriteString(NoObjects + "\n")
	}
	for i, obj := range c.DetectedObjects {
		fmt.Fprintf(&b, "%d. %s\n", i+1, obj)
	}

	return b.String()
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	separators = strings.NewReplacer("/", "_", `\`, "_")
)

// Filename derives a download name from a case name: whitespace runs become a
// single underscore and path separators are replaced. It is not unique.
func Filename(name, ext string) string {
	base := whitespace.ReplaceAllString(name, "_")
	base = separators.Replace(base)
	if base == "" || base == "_" || base == "." || base == ".." {
		base = "case"
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}

// WriteFile saves an artifact atomically. On failure no partial file is left at path.
func WriteFile(path string, data []byte) error {
	if err := atomicfile.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", core.ErrExport, err)
	}
	return nil
}
