package export

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"
	"time"

	"marketboard/internal/ticker"
)

//go:embed page.gohtml
var pageTemplate string

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"opt": formatOptional,
	"pct": formatPct,
	"changeClass": func(pct float64) string {
		switch {
		case pct > 0:
			return "positive"
		case pct < 0:
			return "negative"
		default:
			return "neutral"
		}
	},
}).Parse(pageTemplate))

// pageData is the template payload for the static artifact
type pageData struct {
	Records     []ticker.Record
	Total       int
	GeneratedAt time.Time
}

// WritePage renders the self-contained static HTML table. Template
// escaping covers every value that ends up in markup.
func WritePage(w io.Writer, records []ticker.Record) error {
	data := pageData{
		Records:     records,
		Total:       len(records),
		GeneratedAt: time.Now().UTC(),
	}

	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render HTML page: %w", err)
	}
	return nil
}

// WritePageFile writes the static HTML artifact to the given path
func WritePageFile(path string, records []ticker.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := WritePage(f, records); err != nil {
		return err
	}
	return f.Close()
}

// formatPct renders the signed change percentage with two decimals
func formatPct(pct float64) string {
	s := strconv.FormatFloat(pct, 'f', 2, 64)
	if pct > 0 {
		return "+" + s + "%"
	}
	return s + "%"
}
