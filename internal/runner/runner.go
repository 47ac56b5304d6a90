// Package runner drives multi-file skimming: collecting inputs, fanning out
// transforms across workers, and writing results in input order.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"goskim/internal/cache"
	"goskim/internal/skim"
	"goskim/internal/tokens"
)

const (
	// MaxInputSize caps a single input at 50MB.
	MaxInputSize = 50 * 1024 * 1024

	// MaxJobs caps worker parallelism.
	MaxJobs = 128
)

// ErrTooLarge is returned for inputs over MaxInputSize.
var ErrTooLarge = errors.New("input exceeds maximum size")

// Options configures a Runner.
type Options struct {
	// Mode is the transformation mode.
	Mode skim.Mode

	// Language is used as a fallback when detection from the file path
	// fails. Empty means detection only.
	Language skim.Language

	// NoHeader suppresses per-file headers in multi-file output.
	NoHeader bool

	// Jobs bounds worker parallelism; 0 means NumCPU.
	Jobs int

	// ShowStats computes and reports token reduction statistics.
	ShowStats bool

	// Cache stores transform results; nil disables caching.
	Cache *cache.Cache

	// Logger receives diagnostics; nil means no logging.
	Logger *zap.Logger
}

// FileResult is the outcome of processing one file.
type FileResult struct {
	Output string
	Stats  *tokens.Stats
}

// Runner processes files according to its options.
type Runner struct {
	opts Options
	log  *zap.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{opts: opts, log: log}
}

// ProcessFile transforms a single file, consulting the cache first.
func (r *Runner) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	if entry, ok := r.cachedResult(path); ok {
		r.log.Debug("cache hit", zap.String("path", path))
		return entry, nil
	}

	contents, err := readCapped(path)
	if err != nil {
		return nil, err
	}

	output, err := r.transform(ctx, contents, path)
	if err != nil {
		return nil, err
	}

	result := &FileResult{Output: output}
	if r.opts.ShowStats {
		result.Stats = countStats(string(contents), output)
	}

	if r.opts.Cache != nil {
		orig, trans, has := 0, 0, false
		if result.Stats != nil {
			orig, trans, has = result.Stats.Original, result.Stats.Transformed, true
		}
		if err := r.opts.Cache.Put(path, r.opts.Mode, output, orig, trans, has); err != nil {
			r.log.Debug("cache write failed", zap.String("path", path), zap.Error(err))
		}
	}

	return result, nil
}

// cachedResult returns a usable cached entry. A hit without token counts is
// not usable when stats are requested; re-transforming refreshes it.
func (r *Runner) cachedResult(path string) (*FileResult, bool) {
	if r.opts.Cache == nil {
		return nil, false
	}
	entry, ok := r.opts.Cache.Get(path, r.opts.Mode)
	if !ok {
		return nil, false
	}
	if r.opts.ShowStats && !entry.HasTokens {
		return nil, false
	}

	result := &FileResult{Output: entry.Content}
	if entry.HasTokens {
		result.Stats = &tokens.Stats{Original: entry.OriginalTokens, Transformed: entry.TransformedTokens}
	}
	return result, true
}

// transform applies auto-detection first, falling back to the explicit
// language when detection fails. This keeps mixed-language directories
// working while still covering odd extensions.
func (r *Runner) transform(ctx context.Context, contents []byte, path string) (string, error) {
	output, err := skim.TransformAuto(ctx, contents, path, r.opts.Mode)
	if err == nil {
		return output, nil
	}
	if r.opts.Language != "" && errors.Is(err, skim.ErrUnsupportedLanguage) {
		return skim.Transform(ctx, contents, r.opts.Language, r.opts.Mode)
	}
	return "", err
}

// ProcessAll transforms paths in parallel and writes results to out in
// input order. Per-file failures go to errw; the run fails only when every
// file fails.
func (r *Runner) ProcessAll(ctx context.Context, paths []string, out, errw io.Writer) error {
	if len(paths) == 0 {
		return errors.New("no files to process")
	}

	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > MaxJobs {
		jobs = MaxJobs
	}

	results := make([]*FileResult, len(paths))
	failures := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := r.ProcessFile(gctx, path)
			results[i], failures[i] = res, err
			return nil
		})
	}
	_ = g.Wait()

	writer := bufio.NewWriter(out)

	var (
		succeeded int
		failed    int
		total     tokens.Stats
		haveStats bool
	)
	for i, path := range paths {
		if failures[i] != nil {
			fmt.Fprintf(errw, "error processing %s: %v\n", path, failures[i])
			failed++
			continue
		}

		if !r.opts.NoHeader && len(paths) > 1 {
			if succeeded > 0 {
				fmt.Fprintln(writer)
			}
			fmt.Fprintf(writer, "// === %s ===\n", path)
		}
		if _, err := io.WriteString(writer, results[i].Output); err != nil {
			return err
		}
		succeeded++

		if s := results[i].Stats; s != nil {
			total.Original += s.Original
			total.Transformed += s.Transformed
			haveStats = true
		}
	}

	if err := writer.Flush(); err != nil {
		return err
	}

	if succeeded == 0 {
		return fmt.Errorf("all %d file(s) failed to process", failed)
	}
	if failed > 0 {
		fmt.Fprintf(errw, "\nprocessed %d file(s) successfully, %d failed\n", succeeded, failed)
	}
	if r.opts.ShowStats && haveStats {
		fmt.Fprintf(errw, "\n[goskim] %s across %d file(s)\n", total.Format(), succeeded)
	}

	return nil
}

// ProcessReader transforms a stream (stdin). The language must be explicit:
// there is no path to detect from.
func (r *Runner) ProcessReader(ctx context.Context, in io.Reader, out, errw io.Writer) error {
	if r.opts.Language == "" {
		return errors.New("reading from a stream requires an explicit language")
	}

	contents, err := io.ReadAll(io.LimitReader(in, MaxInputSize+1))
	if err != nil {
		return err
	}
	if len(contents) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(contents), MaxInputSize)
	}

	output, err := skim.Transform(ctx, contents, r.opts.Language, r.opts.Mode)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(out, output); err != nil {
		return err
	}

	if r.opts.ShowStats {
		if s := countStats(string(contents), output); s != nil {
			fmt.Fprintf(errw, "\n[goskim] %s\n", s.Format())
		}
	}
	return nil
}

// countStats computes token stats, or nil when counting is unavailable.
func countStats(original, transformed string) *tokens.Stats {
	orig, err := tokens.Count(original)
	if err != nil {
		return nil
	}
	trans, err := tokens.Count(transformed)
	if err != nil {
		return nil
	}
	return &tokens.Stats{Original: orig, Transformed: trans}
}

// readCapped reads a file, rejecting anything over MaxInputSize.
func readCapped(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxInputSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, path, info.Size(), MaxInputSize)
	}
	return os.ReadFile(path)
}

// CollectDir walks dir recursively and returns every file with a supported
// extension, sorted for deterministic output. Symlinks are skipped: a link
// can point anywhere, including outside the tree being skimmed.
func CollectDir(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := skim.FromPath(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// HasGlobPattern reports whether the argument contains glob metacharacters.
func HasGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// ValidatePattern rejects glob patterns that could escape the working
// directory.
func ValidatePattern(pattern string) error {
	if strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("glob pattern must be relative: %q", pattern)
	}
	if strings.Contains(pattern, "..") {
		return fmt.Errorf("glob pattern must not contain '..': %q", pattern)
	}
	return nil
}

// ExpandGlob matches a doublestar pattern (`src/**/*.ts`) against the
// filesystem and returns matching regular files.
func ExpandGlob(pattern string) ([]string, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}

	sort.Strings(files)
	return files, nil
}
