package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/mgpai22/srtalign/internal/completeness"
	"github.com/mgpai22/srtalign/internal/logging"
	"github.com/mgpai22/srtalign/internal/transcript"
)

type runSummary struct {
	Media      string
	Transcript string
	Subtitles  string
	Provider   string
	Model      string
	Language   string
	Segments   int
	Words      int
	Sentences  int
	Cues       int
	Fallbacks  int
	Report     *completeness.Report
	Cached     bool
	Elapsed    time.Duration
}

func (s runSummary) rows() [][]string {
	rows := [][]string{
		{"Media", s.Media},
		{"Transcript", s.Transcript},
		{"Subtitles", s.Subtitles},
	}
	if s.Provider != "" {
		rows = append(rows,
			[]string{"Provider", s.Provider},
			[]string{"Model", s.Model},
		)
	}
	rows = append(rows,
		[]string{"Language", s.Language},
		[]string{"Segments", strconv.Itoa(s.Segments)},
		[]string{"Words", strconv.Itoa(s.Words)},
		[]string{"Sentences", strconv.Itoa(s.Sentences)},
		[]string{"Cues", strconv.Itoa(s.Cues)},
		[]string{"Unaligned sentences", strconv.Itoa(s.Fallbacks)},
	)
	if s.Report != nil {
		rows = append(rows, []string{"Missing words", strconv.Itoa(len(s.Report.Missing))})
	}
	if s.Provider != "" {
		rows = append(rows, []string{"Cached", strconv.FormatBool(s.Cached)})
	}
	if s.Elapsed > 0 {
		rows = append(rows, []string{"Elapsed", s.Elapsed.Round(time.Millisecond).String()})
	}
	return rows
}

// table on a terminal, indented key/value lines otherwise
func printSummary(w io.Writer, s runSummary) {
	rows := s.rows()
	if isTerminal(w) {
		fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s: %s\n", row[0], row[1])
	}
}

// runs the completeness check on a written SRT; a failed check is logged,
// never returned
func checkCompleteness(
	w io.Writer,
	log *logging.Logger,
	t *transcript.Transcript,
	srtPath string,
) *completeness.Report {
	report, err := completeness.Check(t, srtPath)
	if err != nil {
		log.Warnw("Completeness check skipped",
			"path", srtPath,
			"error", err,
		)
		return nil
	}
	reportMissing(w, report)
	return report
}

func reportMissing(w io.Writer, report *completeness.Report) {
	if report.Complete() {
		fmt.Fprintln(w, "No words are missing in the final SRT file.")
		return
	}
	fmt.Fprintln(w, "Words missing in the final SRT file:")
	fmt.Fprintln(w, strings.Join(report.Missing, ", "))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
