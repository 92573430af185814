// Package driver orchestrates analysis: it expands inputs into class file
// images, fans classes out to a worker pool, and collects per-class
// diagnostic bags. Every class is an independent unit of work: its bag,
// parsed structures and rule state are freshly allocated and released when
// the class is done, whether analysis completes or aborts.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"jvlint/internal/classfile"
	"jvlint/internal/diag"
	"jvlint/internal/lint"
	"jvlint/internal/source"
)

// Options controls one driver run.
type Options struct {
	// MaxDiagnostics bounds each per-class bag.
	MaxDiagnostics int
	// Jobs is the worker pool size; 0 means GOMAXPROCS.
	Jobs int
	// DisabledRules lists rule names excluded from the run.
	DisabledRules []string
	// Cache, when non-nil, short-circuits classes whose content digest
	// already has a result for the current rule set.
	Cache *DiskCache
}

// ClassResult is the outcome for one class file.
type ClassResult struct {
	Path      string
	FileID    source.FileID
	ClassName string // "" when the image was undecodable
	Bag       *diag.Bag
	FromCache bool
}

// CheckPath analyses path, which may be a .class file, a .jar archive or a
// directory tree containing both. Results come back in deterministic input
// order regardless of worker scheduling.
func CheckPath(ctx context.Context, path string, opts Options) (*source.FileSet, []ClassResult, error) {
	inputs, err := listInputs(path)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(filepath.Dir(path))
	var ids []source.FileID
	loadErrors := make(map[source.FileID]error)

	for _, input := range inputs {
		if strings.HasSuffix(input, ".jar") {
			jarIDs, err := loadJar(fileSet, input)
			if err != nil {
				// Битый архив не прерывает обход: диагностика на сам jar.
				id := fileSet.AddVirtual(input, nil)
				loadErrors[id] = err
				ids = append(ids, id)
				continue
			}
			ids = append(ids, jarIDs...)
			continue
		}
		id, err := fileSet.Load(input)
		if err != nil {
			id = fileSet.AddVirtual(input, nil)
			loadErrors[id] = err
		}
		ids = append(ids, id)
	}

	rules := lint.Enabled(opts.DisabledRules)
	fingerprint := rulesFingerprint(rules)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	results := make([]ClassResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(ids), 1)))

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			file := fileSet.Get(id)
			bag := diag.NewBag(opts.MaxDiagnostics)
			res := ClassResult{Path: file.Path, FileID: id, Bag: bag}

			if loadErr, hadError := loadErrors[id]; hadError {
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Location{File: id},
					"failed to load input: "+loadErr.Error()))
				results[i] = res
				return nil
			}

			res.ClassName, res.FromCache = analyzeClass(file, rules, fingerprint, opts.Cache, bag)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// analyzeClass runs every rule over one class image, consulting the disk
// cache first. Returns the resolved class name and whether the result came
// from cache.
func analyzeClass(file *source.File, rules []lint.Rule, fingerprint string, cache *DiskCache, bag *diag.Bag) (string, bool) {
	if cache != nil {
		var payload ResultPayload
		if ok, err := cache.Get(file.Hash, &payload); err == nil && ok && payload.RuleSet == fingerprint {
			restoreFindings(file.ID, &payload, bag)
			return payload.ClassName, true
		}
	}

	cls, err := classfile.Parse(file.Content)
	if err != nil {
		bag.Add(diag.NewError(diag.ClsMalformed, source.Location{File: file.ID},
			fmt.Sprintf("cannot decode class file: %v", err)))
		return "", false
	}
	className, err := cls.Name()
	if err != nil {
		bag.Add(diag.NewError(diag.ClsUnresolvableConst, source.Location{File: file.ID},
			fmt.Sprintf("cannot resolve class name: %v", err)))
		return "", false
	}

	rep := &diag.BagReporter{Bag: bag}
	for _, rule := range rules {
		rule.Check(cls, file.ID, rep)
	}

	if cache != nil {
		payload := snapshotFindings(className, fingerprint, bag)
		// Cache write failure only costs a re-analysis next run.
		_ = cache.Put(file.Hash, payload)
	}
	return className, false
}

// listInputs expands path into a sorted list of .class and .jar files.
func listInputs(path string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(p, ".class") || strings.HasSuffix(p, ".jar") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// rulesFingerprint identifies the active rule set for cache invalidation.
func rulesFingerprint(rules []lint.Rule) string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name()
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
