package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gigurra/recurring-features/internal"
	"github.com/gigurra/recurring-features/internal/logger"
	"github.com/gigurra/recurring-features/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is how many rows get features computed before they are
// predicted, written and released.
const DefaultChunkSize = 10000

// Output columns appended to every input row.
const (
	ColPredicted   = "predicted_recurring"
	ColProbability = "recurring_probability"
)

// Options tunes a batch run.
type Options struct {
	Jobs      int    // concurrent feature workers, 0 for one per CPU
	ChunkSize int    // rows per chunk, 0 for DefaultChunkSize
	Format    string // parser name, empty to pick by extension or prefix
	OutputDir string
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.NumCPU()
	}
	return o.Jobs
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

// FileResult is the outcome of predicting one input file.
type FileResult struct {
	RunID     string        `json:"run_id"`
	Input     string        `json:"input"`
	Output    string        `json:"output,omitempty"`
	Rows      int           `json:"rows"`
	Recurring int           `json:"recurring"`
	Duration  time.Duration `json:"duration_ns"`
	Err       error         `json:"-"`
	Error     string        `json:"error,omitempty"`
}

// Runner predicts input files one at a time, spreading the feature
// computation of each file over a worker pool.
type Runner struct {
	model     *model.Model
	extractor *internal.Extractor
	opts      Options
}

// NewRunner creates a runner. The model and extractor are shared read-only by all workers.
func NewRunner(m *model.Model, e *internal.Extractor, opts Options) *Runner {
	return &Runner{model: m, extractor: e, opts: opts}
}

// MissingFeatures returns the vectorizer columns the extractor never produces.
// Those columns always encode as 0.
func MissingFeatures(e *internal.Extractor, v *model.Vectorizer) []string {
	probe := internal.Transaction{ID: "probe", Name: "probe", Date: time.Unix(0, 0).UTC()}
	produced := e.Extract(probe, internal.NewIndex([]internal.Transaction{probe}))
	var missing []string
	for _, name := range v.FeatureNames {
		if _, ok := produced[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// ListInputs expands input into the files to process: a file is returned as
// is, a directory yields its files with a registered extension, sorted.
func ListInputs(input string) ([]string, error) {
	_, path := internal.ParseFileArg(input)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !internal.HasKnownExtension(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files found in %s", path)
	}
	return files, nil
}

// Run processes every input. A failing file is logged and reported in its
// result; the remaining files still run. Logs go to the logger of ctx.
func (r *Runner) Run(ctx context.Context, inputs []string) []FileResult {
	log := logger.FromContext(ctx)
	results := make([]FileResult, 0, len(inputs))
	for _, in := range inputs {
		if ctx.Err() != nil {
			break
		}
		res := r.RunFile(ctx, in)
		if res.Err != nil {
			log.Error().Err(res.Err).Str("run_id", res.RunID).Str("file", in).Msg("File failed")
		}
		results = append(results, res)
	}
	return results
}

// RunFile predicts one input file into the output directory.
func (r *Runner) RunFile(ctx context.Context, input string) FileResult {
	start := time.Now()
	res := FileResult{RunID: uuid.New().String(), Input: input}
	log := logger.FromContext(ctx).With().Str("run_id", res.RunID).Str("file", input).Logger()

	res.Err = r.runFile(ctx, input, &res, log)
	if res.Err != nil {
		res.Error = res.Err.Error()
	}
	res.Duration = time.Since(start)
	log.Info().Int("rows", res.Rows).Int("recurring", res.Recurring).Dur("took", res.Duration).Msg("File done")
	return res
}

func (r *Runner) runFile(ctx context.Context, input string, res *FileResult, log zerolog.Logger) error {
	ds, err := internal.ParseFileAs(input, r.opts.Format)
	if err != nil {
		return err
	}
	log.Debug().Int("rows", ds.Len()).Msg("Parsed input")

	out := OutputPath(r.opts.OutputDir, input)
	if err := os.MkdirAll(r.opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := r.predict(ctx, ds, f, res, log); err != nil {
		f.Close()
		os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	res.Output = out
	return nil
}

func (r *Runner) predict(ctx context.Context, ds *internal.Dataset, f *os.File, res *FileResult, log zerolog.Logger) error {
	w := csv.NewWriter(f)
	header := append(append([]string(nil), ds.Header...), ColPredicted, ColProbability)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	idx := internal.NewIndex(ds.Transactions)
	chunk := r.opts.chunkSize()
	for lo := 0; lo < ds.Len(); lo += chunk {
		hi := min(lo+chunk, ds.Len())
		features, err := ExtractRange(ctx, r.extractor, idx, lo, hi, r.opts.jobs())
		if err != nil {
			return err
		}
		for i, feat := range features {
			recurring, p := r.model.Predict(feat)
			if recurring {
				res.Recurring++
			}
			row := append(append([]string(nil), ds.Rows[lo+i]...), boolCell(recurring), strconv.FormatFloat(p, 'f', 6, 64))
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing row %d: %w", lo+i+1, err)
			}
		}
		res.Rows += len(features)
		log.Debug().Int("from", lo).Int("to", hi).Msg("Chunk done")
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

// ExtractRange computes features for the index transactions [lo, hi) with up
// to jobs concurrent workers. The result is in input order.
func ExtractRange(ctx context.Context, e *internal.Extractor, idx *internal.Index, lo, hi, jobs int) ([]internal.Features, error) {
	txs := idx.Transactions()
	out := make([]internal.Features, hi-lo)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i := lo; i < hi; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i-lo] = e.Extract(txs[i], idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing features: %w", err)
	}
	return out, nil
}

// OutputPath is the output file for input: same base name, .csv extension.
func OutputPath(dir, input string) string {
	_, path := internal.ParseFileArg(input)
	base := filepath.Base(path)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".csv")
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
