package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/lehigh-university-libraries/watchrec/internal/recommend"
)

type homepageDocument struct {
	Meta   Meta              `json:"meta" yaml:"meta"`
	Report *recommend.Report `json:"report" yaml:"report"`
}

// WriteHomepage renders a recommendation report
func WriteHomepage(w io.Writer, format Format, rep *recommend.Report, meta Meta) error {
	switch format {
	case FormatText:
		return writeHomepageText(w, rep)
	case FormatJSON:
		return writeJSON(w, homepageDocument{Meta: meta, Report: rep})
	case FormatYAML:
		return writeYAML(w, homepageDocument{Meta: meta, Report: rep})
	case FormatCSV:
		return writeHomepageCSV(w, rep)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeHomepageText(w io.Writer, rep *recommend.Report) error {
	p := &printer{w: w}

	p.line("========================================")
	p.line("Homepage Recommendations")
	p.line("========================================")
	p.printf("Watched titles:   %d\n", rep.WatchedTitles)
	p.printf("Catalog entries:  %d\n", rep.CatalogEntries)
	p.line("")

	if len(rep.Recommendations) == 0 {
		p.line("No watched titles matched the catalog.")
		return p.err
	}

	p.line("Top Genres:")
	for i, rec := range rep.Recommendations {
		p.printf("  %2d. %-60s %5d\n", i+1, truncate(rec.Genre, 60), rec.Hits)
	}
	p.line("========================================")

	for _, rec := range rep.Recommendations {
		p.line("")
		p.line(rec.Genre)
		for i, t := range rec.Titles {
			p.printf("  %2d. %s (%d)\n", i+1, t.Title, t.Count)
		}
	}

	return p.err
}

func writeHomepageCSV(w io.Writer, rep *recommend.Report) error {
	writer := csv.NewWriter(w)

	header := []string{"genre", "genre_hits", "rank", "title", "title_matches"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range rep.Recommendations {
		for i, t := range rec.Titles {
			row := []string{
				rec.Genre,
				strconv.Itoa(rec.Hits),
				strconv.Itoa(i + 1),
				t.Title,
				strconv.Itoa(t.Count),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// printer remembers the first write error so report code stays linear
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}
