package result

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cloud-bulldozer/nx/pkg/config"
	"github.com/cloud-bulldozer/nx/pkg/logging"
	"github.com/cloud-bulldozer/nx/pkg/sample"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Specify Language specific case wrapper as global variable
var caser = cases.Title(language.English)

const (
	humanSeparator = "[---------|----------|----------|----------]\n"
	humanHeader    = "| name    | real     | user     | sys      |\n"
	csvHeader      = "name, real, user, sys\n"
)

// Summary row labels, in print order.
const (
	MeanLabel   = "mean"
	MinLabel    = "min"
	MaxLabel    = "max"
	StddevLabel = "stddev"
)

// Data describes one complete nx run.
type Data struct {
	config.Config
	Collector *Collector
	Aggregate Aggregate
	Outcome   sample.Outcome
	StartTime time.Time
	EndTime   time.Time
}

// PrintSeparator writes the border line. CSV has none.
func PrintSeparator(w io.Writer, f config.Format) error {
	if f != config.Human {
		return nil
	}
	_, err := io.WriteString(w, humanSeparator)
	return err
}

// PrintHeader writes the column names, framed by separators for the human format.
func PrintHeader(w io.Writer, f config.Format) error {
	switch f {
	case config.Human:
		_, err := io.WriteString(w, humanSeparator+humanHeader+humanSeparator)
		return err
	case config.CSV:
		_, err := io.WriteString(w, csvHeader)
		return err
	}
	return fmt.Errorf("%w: %q", config.ErrFormat, f)
}

// PrintSample writes one labeled row with three decimals per value.
func PrintSample(w io.Writer, f config.Format, name string, s sample.Sample) error {
	var err error
	switch f {
	case config.Human:
		_, err = fmt.Fprintf(w, "%10s %10.3f %10.3f %10.3f\n", name, s.Real, s.User, s.Sys)
	case config.CSV:
		_, err = fmt.Fprintf(w, "%s, %.3f, %.3f, %.3f\n", name, s.Real, s.User, s.Sys)
	default:
		err = fmt.Errorf("%w: %q", config.ErrFormat, f)
	}
	return err
}

// IterationLabel is the row name of the i-th run, counting from 0.
func IterationLabel(i int) string {
	return strconv.Itoa(i + 1)
}

// PrintSummary writes the mean, min, max and stddev rows.
func PrintSummary(w io.Writer, f config.Format, agg Aggregate) error {
	rows := []struct {
		name string
		s    sample.Sample
	}{
		{MeanLabel, agg.Mean},
		{MinLabel, agg.Min},
		{MaxLabel, agg.Max},
		{StddevLabel, agg.Stddev},
	}
	for _, r := range rows {
		if err := PrintSample(w, f, r.name, r.s); err != nil {
			return err
		}
	}
	return nil
}

// Method to init common table structure.
func initTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

// ShowSummary renders the per dimension statistics of a run as a table,
// including the median, 95th percentile and the 95% confidence interval.
func ShowSummary(w io.Writer, d Data) {
	if d.Collector == nil || d.Collector.Len() == 0 {
		logging.Warn("No samples to summarize")
		return
	}
	logging.Debug("Rendering summary table")
	table := initTable(w, []string{"Result Type", "Command", "Dimension", "Samples", "Mean", "Median", "95%tile", "Min", "Max", "Stddev", "95% Confidence Interval"})
	for _, dim := range sample.Dimensions {
		med, _ := d.Collector.Median(dim)
		p95, _ := Percentile(d.Collector.Series(dim), 95)
		lo, hi := d.Collector.Confidence(dim, 0.95)
		table.Append([]string{
			"📊 Timing Results",
			fmt.Sprintf("%.30s", strings.Join(d.Command, " ")),
			caser.String(dim.String()),
			strconv.Itoa(d.Collector.Len()),
			fmt.Sprintf("%.3f", d.Aggregate.Mean.Value(dim)),
			fmt.Sprintf("%.3f", med),
			fmt.Sprintf("%.3f", p95),
			fmt.Sprintf("%.3f", d.Aggregate.Min.Value(dim)),
			fmt.Sprintf("%.3f", d.Aggregate.Max.Value(dim)),
			fmt.Sprintf("%.3f", d.Aggregate.Stddev.Value(dim)),
			fmt.Sprintf("%.3f-%.3f (s)", lo, hi),
		})
	}
	table.Render()
}
