package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/lehigh-university-libraries/watchrec/internal/history"
)

type historyEntry struct {
	Title               string   `json:"title" yaml:"title"`
	Tokens              []string `json:"tokens" yaml:"tokens"`
	EpisodeCount        int      `json:"episode_count" yaml:"episodecount"`
	AvgDaysSinceViewing float64  `json:"avg_days_since_viewing" yaml:"avgdayssinceviewing"`
}

type historyDocument struct {
	Meta    Meta           `json:"meta" yaml:"meta"`
	Titles  []historyEntry `json:"titles" yaml:"titles"`
	Rows    int            `json:"rows" yaml:"rows"`
	Summary historySummary `json:"summary" yaml:"summary"`
}

type historySummary struct {
	UniqueTitles   int     `json:"unique_titles" yaml:"uniquetitles"`
	MostWatched    string  `json:"most_watched,omitempty" yaml:"mostwatched,omitempty"`
	MostWatchedEps int     `json:"most_watched_episodes,omitempty" yaml:"mostwatchedepisodes,omitempty"`
	MeanDaysSince  float64 `json:"mean_days_since_viewing" yaml:"meandayssinceviewing"`
}

func summarize(stats []history.TitleStats) (historySummary, int) {
	s := historySummary{UniqueTitles: len(stats)}

	rows := 0
	var weighted float64
	for _, st := range stats {
		rows += st.EpisodeCount
		weighted += st.AvgDaysSinceViewing * float64(st.EpisodeCount)
		if st.EpisodeCount > s.MostWatchedEps {
			s.MostWatched = st.Title.String()
			s.MostWatchedEps = st.EpisodeCount
		}
	}
	if rows > 0 {
		s.MeanDaysSince = weighted / float64(rows)
	}

	return s, rows
}

// WriteHistory renders normalized viewing-history statistics
func WriteHistory(w io.Writer, format Format, stats []history.TitleStats, meta Meta) error {
	switch format {
	case FormatText:
		return writeHistoryText(w, stats)
	case FormatJSON, FormatYAML:
		summary, rows := summarize(stats)
		doc := historyDocument{Meta: meta, Rows: rows, Summary: summary, Titles: make([]historyEntry, 0, len(stats))}
		for _, st := range stats {
			doc.Titles = append(doc.Titles, historyEntry{
				Title:               st.Title.String(),
				Tokens:              st.Title,
				EpisodeCount:        st.EpisodeCount,
				AvgDaysSinceViewing: st.AvgDaysSinceViewing,
			})
		}
		if format == FormatJSON {
			return writeJSON(w, doc)
		}
		return writeYAML(w, doc)
	case FormatCSV:
		return writeHistoryCSV(w, stats)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeHistoryText(w io.Writer, stats []history.TitleStats) error {
	summary, rows := summarize(stats)

	p := &printer{w: w}
	p.line("========================================")
	p.line("Viewing History")
	p.line("========================================")
	p.printf("Rows:           %d\n", rows)
	p.printf("Unique titles:  %d\n", summary.UniqueTitles)
	if summary.MostWatched != "" {
		p.printf("Most watched:   %s (%d)\n", summary.MostWatched, summary.MostWatchedEps)
	}
	p.printf("Mean days since viewing: %.1f\n", summary.MeanDaysSince)
	p.line("")
	if p.err != nil {
		return p.err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tEPISODES\tAVG DAYS SINCE VIEWING")
	for _, st := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\n", truncate(st.Title.String(), 60), st.EpisodeCount, st.AvgDaysSinceViewing)
	}
	return tw.Flush()
}

func writeHistoryCSV(w io.Writer, stats []history.TitleStats) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"title", "episode_count", "avg_days_since_viewing"}); err != nil {
		return err
	}

	for _, st := range stats {
		row := []string{
			st.Title.String(),
			strconv.Itoa(st.EpisodeCount),
			strconv.FormatFloat(st.AvgDaysSinceViewing, 'f', 4, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
