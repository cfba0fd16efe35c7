package archive

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloud-bulldozer/go-commons/indexers"
	"github.com/cloud-bulldozer/nx/pkg/logging"
	result "github.com/cloud-bulldozer/nx/pkg/results"
	"github.com/cloud-bulldozer/nx/pkg/sample"
)

const timeMetric = "s"

// Doc struct of the JSON document to be indexed, one per timing dimension
type Doc struct {
	UUID       string    `json:"uuid"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Dimension  string    `json:"dimension"`
	Samples    int       `json:"samples"`
	Mean       float64   `json:"mean"`
	Median     float64   `json:"median"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Stddev     float64   `json:"stddev"`
	Confidence []float64 `json:"confidence"`
	Values     []float64 `json:"values"`
	Metric     string    `json:"metric"`
	ExitCode   int       `json:"exitCode"`
	Abnormal   bool      `json:"abnormal"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
}

// Connect returns a client connected to the desired OpenSearch instance.
func Connect(url, index string, skip bool) (*indexers.Indexer, error) {
	var err error
	var indexer *indexers.Indexer
	indexerConfig := indexers.IndexerConfig{
		Type:               "opensearch",
		Servers:            []string{url},
		Index:              index,
		InsecureSkipVerify: skip,
	}
	logging.Infof("📁 Creating indexer: %s", indexerConfig.Type)
	indexer, err = indexers.NewIndexer(indexerConfig)
	if err != nil {
		logging.Errorf("%v indexer: %v", indexerConfig.Type, err.Error())
		return nil, fmt.Errorf("failure while connecting to OpenSearch")
	}
	logging.Infof("Connected to : %s ", url)
	return indexer, nil
}

// Index sends docs through the indexer and returns its response message.
func Index(indexer *indexers.Indexer, docs []interface{}) (string, error) {
	return (*indexer).Index(docs, indexers.IndexingOpts{MetricName: "nx-timing"})
}

// BuildDocs returns the documents that need to be indexed or an error.
func BuildDocs(d result.Data, uuid string) ([]interface{}, error) {
	if d.Collector == nil || d.Collector.Len() < 1 {
		return nil, fmt.Errorf("no result documents")
	}
	now := time.Now().UTC()
	var docs []interface{}
	for _, dim := range sample.Dimensions {
		med, err := d.Collector.Median(dim)
		if err != nil {
			logging.Warnf("Unable to process %s median, setting value to zero", dim)
			med = 0
		}
		lo, hi := d.Collector.Confidence(dim, 0.95)
		docs = append(docs, Doc{
			UUID:       uuid,
			Timestamp:  now,
			Command:    strings.Join(d.Command, " "),
			Dimension:  dim.String(),
			Samples:    d.Collector.Len(),
			Mean:       d.Aggregate.Mean.Value(dim),
			Median:     med,
			Min:        d.Aggregate.Min.Value(dim),
			Max:        d.Aggregate.Max.Value(dim),
			Stddev:     d.Aggregate.Stddev.Value(dim),
			Confidence: []float64{lo, hi},
			Values:     d.Collector.Series(dim),
			Metric:     timeMetric,
			ExitCode:   d.Outcome.Code(),
			Abnormal:   d.Outcome.Abnormal(),
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
		})
	}
	return docs, nil
}

// WriteJSONResult writes the result documents as indented JSON
func WriteJSONResult(w io.Writer, d result.Data, uuid string) error {
	docs, err := BuildDocs(d, uuid)
	if err != nil {
		return err
	}
	p, err := json.MarshalIndent(docs, " ", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(p))
	return err
}

// Common csv header fields.
func csvHeaderFields() []string {
	return []string{
		"Iteration",
		"Real",
		"User",
		"Sys",
		"Metric",
	}
}

// WriteCSV writes every sample of the run, one record per iteration.
func WriteCSV(w io.Writer, d result.Data) error {
	if d.Collector == nil {
		return fmt.Errorf("no samples to archive")
	}
	archive := csv.NewWriter(w)
	if err := archive.Write(csvHeaderFields()); err != nil {
		return fmt.Errorf("failed to write result archive to file")
	}
	for i, s := range d.Collector.Samples() {
		if err := archive.Write([]string{
			result.IterationLabel(i),
			strconv.FormatFloat(s.Real, 'f', -1, 64),
			strconv.FormatFloat(s.User, 'f', -1, 64),
			strconv.FormatFloat(s.Sys, 'f', -1, 64),
			timeMetric,
		}); err != nil {
			return fmt.Errorf("failed to write archive to file")
		}
	}
	archive.Flush()
	return archive.Error()
}

// WriteCSVResult will write the per-run samples to result-<unix>.csv in dir
func WriteCSVResult(dir string, d result.Data) (string, error) {
	fn := filepath.Join(dir, fmt.Sprintf("result-%d.csv", time.Now().Unix()))
	fp, err := os.Create(fn)
	if err != nil {
		return "", fmt.Errorf("failed to open archive file")
	}
	defer fp.Close()
	if err := WriteCSV(fp, d); err != nil {
		return "", err
	}
	return fn, nil
}

// WriteJSONFile will write the result documents to result-<unix>.json in dir
func WriteJSONFile(dir string, d result.Data, uuid string) (string, error) {
	fn := filepath.Join(dir, fmt.Sprintf("result-%d.json", time.Now().Unix()))
	fp, err := os.Create(fn)
	if err != nil {
		return "", fmt.Errorf("failed to open archive file")
	}
	defer fp.Close()
	if err := WriteJSONResult(fp, d, uuid); err != nil {
		return "", err
	}
	return fn, nil
}
