package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/cloud-bulldozer/nx/pkg/config"
	log "github.com/cloud-bulldozer/nx/pkg/logging"
	result "github.com/cloud-bulldozer/nx/pkg/results"
	"github.com/cloud-bulldozer/nx/pkg/sample"
)

// Runner executes a command once and reports its timing.
type Runner interface {
	Run(argv []string) (sample.Sample, sample.Outcome, error)
}

// sink reports the first write error on the output and swallows the rest,
// so a broken output never stops the measurements.
type sink struct {
	err error
}

func (s *sink) check(err error) {
	if err != nil && s.err == nil {
		s.err = err
		log.Errorf("writing results: %v", err)
	}
}

// Execute runs cfg.Command cfg.Repeats times, one after the other, printing
// a row to w as each run completes and the summary rows at the end.
// Only an error from the Runner aborts the loop; no summary is printed then
// and the returned Data holds the samples recorded so far. Failed writes to
// w are logged and otherwise ignored.
func Execute(cfg config.Config, w io.Writer, r Runner) (result.Data, error) {
	d := result.Data{
		Config:    cfg,
		Collector: result.NewCollector(cfg.Repeats),
	}
	if err := config.Validate(cfg); err != nil {
		return d, err
	}
	config.Show(cfg)
	out := &sink{}
	out.check(result.PrintHeader(w, cfg.Format))
	d.StartTime = time.Now()
	for i := 0; i < cfg.Repeats; i++ {
		s, o, err := r.Run(cfg.Command)
		if err != nil {
			d.EndTime = time.Now()
			return d, fmt.Errorf("run %d of %d: %w", i+1, cfg.Repeats, err)
		}
		d.Outcome = o
		d.Collector.Record(s)
		out.check(result.PrintSample(w, cfg.Format, result.IterationLabel(i), s))
	}
	d.EndTime = time.Now()
	log.Debugf("Finished %d runs in %s", d.Collector.Len(), d.EndTime.Sub(d.StartTime))

	out.check(result.PrintSeparator(w, cfg.Format))
	agg, err := d.Collector.Aggregate()
	if err != nil {
		return d, err
	}
	d.Aggregate = agg
	out.check(result.PrintSummary(w, cfg.Format, agg))
	out.check(result.PrintSeparator(w, cfg.Format))
	if cfg.Table {
		if cfg.Format == config.Human {
			result.ShowSummary(w, d)
		} else {
			log.Warn("Summary table is only rendered for the human format")
		}
	}
	return d, nil
}
