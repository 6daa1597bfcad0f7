package parsers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/vault"
)

// Failure is a unit that produced no record.
type Failure struct {
	Path    string
	RelPath string
	Err     error
}

// BatchResult holds the outcome of parsing a directory. Records, RelPaths and
// ModTimes are parallel and ordered by relative path. Relative paths are taken
// against the service's content directory.
type BatchResult struct {
	Records  []*content.Extracted
	RelPaths []string
	ModTimes []int64
	Failures []Failure
}

// BatchOptions controls a directory parse.
type BatchOptions struct {
	// Pattern selects units; see vault.WalkOptions.
	Pattern string
	// Workers is the number of concurrent parses. Values below 2 parse
	// sequentially.
	Workers int
	// Type forces one parser type for every unit instead of detection.
	Type content.Type
}

// Service ties together a registry, a detector and pipeline options for one
// content directory.
type Service struct {
	ContentDir string
	Registry   *Registry
	Detector   *Detector
	Options    content.Options
	Logger     *slog.Logger
}

// NewService returns a service over contentDir using the built-in parsers.
func NewService(contentDir string, aliases map[string]string, opts content.Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reg := DefaultRegistry()
	return &Service{
		ContentDir: contentDir,
		Registry:   reg,
		Detector:   NewDetector(reg, contentDir, aliases),
		Options:    opts,
		Logger:     logger,
	}
}

// DetectPath loads path and returns the type it would be parsed as.
func (s *Service) DetectPath(path string) (content.Type, error) {
	src, err := content.LoadSource(path)
	if err != nil {
		return "", err
	}
	return s.Detector.Detect(path, src.Metadata), nil
}

// ParseFile parses one file or content folder. An empty forced type means
// auto-detect.
func (s *Service) ParseFile(path string, forced content.Type) (*content.Extracted, error) {
	src, err := content.LoadSource(path)
	if err != nil {
		return nil, err
	}
	t := forced
	if t == "" {
		t = s.Detector.Detect(path, src.Metadata)
	}
	p := s.Registry.Create(s.ContentDir, t)
	if p == nil {
		return nil, fmt.Errorf("no parser registered for %q", t)
	}
	return content.ParseSource(p, src, s.Options)
}

type job struct {
	index int
	unit  vault.Unit
}

type jobResult struct {
	index  int
	unit   vault.Unit
	record *content.Extracted
	err    error
}

// ParseDir walks dir and parses every unit independently. A unit that fails
// is logged and reported in Failures; it never aborts the batch. The returned
// error is non-nil only when the walk itself fails or ctx is cancelled.
func (s *Service) ParseDir(ctx context.Context, dir string, opts BatchOptions) (*BatchResult, error) {
	units, walkFailures, err := vault.CollectUnits(dir, vault.WalkOptions{Pattern: opts.Pattern})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	result := &BatchResult{}
	for _, wf := range walkFailures {
		s.Logger.Warn("skipping unreadable entry", "path", wf.Path, "error", wf.Error)
		result.Failures = append(result.Failures, Failure{Path: wf.Path, RelPath: s.Rel(wf.Path), Err: wf.Error})
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(units) {
		workers = len(units)
	}

	results := make([]jobResult, len(units))
	if workers <= 1 {
		for i, u := range units {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = s.parseUnit(job{index: i, unit: u}, opts.Type)
		}
	} else {
		s.Logger.Debug("starting parse workers", "units", len(units), "workers", workers)
		var wg sync.WaitGroup
		jobs := make(chan job, len(units))
		out := make(chan jobResult, len(units))

		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := range jobs {
					if ctx.Err() != nil {
						out <- jobResult{index: j.index, unit: j.unit, err: ctx.Err()}
						continue
					}
					out <- s.parseUnit(j, opts.Type)
				}
			}()
		}
		for i, u := range units {
			jobs <- job{index: i, unit: u}
		}
		close(jobs)
		wg.Wait()
		close(out)

		for r := range out {
			results[r.index] = r
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	for _, r := range results {
		rel := s.Rel(r.unit.Path)
		if r.err != nil {
			s.Logger.Warn("skipping file", "path", rel, "error", r.err)
			result.Failures = append(result.Failures, Failure{Path: r.unit.Path, RelPath: rel, Err: r.err})
			continue
		}
		result.Records = append(result.Records, r.record)
		result.RelPaths = append(result.RelPaths, rel)
		result.ModTimes = append(result.ModTimes, r.unit.ModTime)
	}
	sort.SliceStable(result.Failures, func(i, j int) bool { return result.Failures[i].RelPath < result.Failures[j].RelPath })
	return result, nil
}

// parseUnit parses one unit, converting a panic that escapes the pipeline
// into an extraction failure.
func (s *Service) parseUnit(j job, forced content.Type) (res jobResult) {
	res = jobResult{index: j.index, unit: j.unit}
	defer func() {
		if r := recover(); r != nil {
			res.record = nil
			res.err = &content.ParseError{
				Kind: content.KindExtractionFailed,
				Path: j.unit.Path,
				Err:  fmt.Errorf("%w: panic: %v", content.ErrExtractionFailed, r),
			}
		}
	}()
	rec, err := s.ParseFile(j.unit.Path, forced)
	if err != nil {
		var pe *content.ParseError
		if !errors.As(err, &pe) {
			err = &content.ParseError{Kind: content.KindExtractionFailed, Path: j.unit.Path, Err: err}
		}
		res.err = err
		return res
	}
	res.record = rec
	return res
}

// Rel returns path relative to the service's content directory, slash
// separated, or the path unchanged when it lies outside.
func (s *Service) Rel(path string) string {
	if s.ContentDir == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(s.ContentDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
