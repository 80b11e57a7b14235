package bulkupload

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/NABat/tools/cmd/nabat/night"
	perrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Names of the files written to each directory.
const (
	BatchFile    = "_batchupload.csv"
	ProblemsFile = "_problems.csv"
)

// Generator builds bulk upload files from directories of recordings.
type Generator struct {
	Version Version

	// Recurse into subdirectories.
	Recursive bool

	// Reuse files written by a previous run instead of reading recordings.
	UsePrevious bool

	// Maximum number of recordings read concurrently.
	Workers int

	// When set, empty survey start and end times are filled with the
	// automatic times of the recording's monitoring night at the site.
	Site *night.Site

	Logger *zap.SugaredLogger
}

// Result holds the records of a directory tree.
type Result struct {
	Records  Records
	Problems Records
}

func (r *Result) merge(o *Result) {
	r.Records = append(r.Records, o.Records...)
	r.Problems = append(r.Problems, o.Problems...)
}

// NewGenerator initializes a generator with defaults.
func NewGenerator(logger *zap.SugaredLogger) *Generator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Generator{
		Version:   Latest,
		Recursive: true,
		Workers:   runtime.NumCPU(),
		Logger:    logger,
	}
}

// Run processes a directory. Each directory holding recordings, directly or
// below it, gets a batch file covering its subtree and a problems file when
// any recording could not be read.
func (g *Generator) Run(ctx context.Context, dir string) (*Result, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}

	if !stat.IsDir() {
		return nil, perrors.Errorf("%s is not a directory", dir)
	}

	return g.run(ctx, dir)
}

func (g *Generator) run(ctx context.Context, dir string) (*Result, error) {
	if g.UsePrevious {
		res, ok, err := g.previous(dir)
		if err != nil {
			return nil, err
		}

		if ok {
			g.Logger.Infow("using previous bulk upload", "dir", dir, "records", len(res.Records))
			return res, nil
		}
	}

	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to list %s", dir)
	}

	var (
		wavs []string
		dirs []string
	)

	for _, fi := range infos {
		path := filepath.Join(dir, fi.Name())

		if fi.IsDir() {
			dirs = append(dirs, path)
			continue
		}

		if strings.ToLower(filepath.Ext(fi.Name())) == ".wav" {
			wavs = append(wavs, path)
		}
	}

	res := &Result{}

	if len(wavs) > 0 {
		g.Logger.Infow("reading recordings", "dir", dir, "count", len(wavs))

		records, err := g.extract(ctx, wavs)
		if err != nil {
			return nil, err
		}

		res.Records, res.Problems = records.Split()
	}

	if g.Recursive {
		for _, sub := range dirs {
			r, err := g.run(ctx, sub)
			if err != nil {
				return nil, err
			}

			res.merge(r)
		}
	}

	if err := g.write(dir, res); err != nil {
		return nil, err
	}

	return res, nil
}

// previous reads the files of an earlier run. Problem records are retried
// so fixed recordings are picked up.
func (g *Generator) previous(dir string) (*Result, bool, error) {
	path := filepath.Join(dir, BatchFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, false, nil
	}

	if _, err := os.Stat(filepath.Join(dir, ProblemsFile)); err == nil {
		g.Logger.Infow("retrying previous problems", "dir", dir)
		return nil, false, nil
	}

	records, err := ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	return &Result{Records: records}, true, nil
}

func (g *Generator) extract(ctx context.Context, paths []string) (Records, error) {
	records := make(Records, len(paths))

	eg, ctx := errgroup.WithContext(ctx)

	if g.Workers > 0 {
		eg.SetLimit(g.Workers)
	}

	for i, path := range paths {
		i, path := i, path

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rec, err := FromGUANO(path, g.Version)
			if err != nil {
				g.Logger.Warnw("problem extracting metadata", "path", path, "error", err)
			} else if err := g.autoTimes(rec); err != nil {
				g.Logger.Warnw("no automatic survey times", "path", path, "error", err)
			}

			records[i] = rec

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func (g *Generator) autoTimes(rec *Record) error {
	if g.Site == nil || (rec.StartTime != "" && rec.EndTime != "") {
		return nil
	}

	t, err := ParseTime(rec.AudioRecordingTime)
	if err != nil {
		return perrors.Wrap(err, "recording time")
	}

	start, end, err := g.Site.AutoTimes(t)
	if err != nil {
		return err
	}

	if rec.StartTime == "" {
		rec.StartTime = start.Format(TimeLayout)
	}

	if rec.EndTime == "" {
		rec.EndTime = end.Format(TimeLayout)
	}

	return nil
}

func (g *Generator) write(dir string, res *Result) error {
	sort.Stable(res.Records)
	sort.Stable(res.Problems)

	if err := writeOrRemove(filepath.Join(dir, BatchFile), g.Version, res.Records); err != nil {
		return err
	}

	return writeOrRemove(filepath.Join(dir, ProblemsFile), g.Version, res.Problems)
}

// writeOrRemove writes non-empty record sets and removes stale files from an
// earlier run otherwise.
func writeOrRemove(path string, v Version, records Records) error {
	if len(records) > 0 {
		return WriteFile(path, v, records)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
