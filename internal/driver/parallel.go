package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"playscript/internal/buildpipeline"
	"playscript/internal/diag"
	"playscript/internal/source"
)

// SourceExt is the file extension of PlayScript sources.
const SourceExt = ".play"

// CheckOptions configures CheckDir.
type CheckOptions struct {
	Jobs           int // 0 means GOMAXPROCS
	MaxDiagnostics int
	Sink           buildpipeline.ProgressSink
}

// CheckDirResult is the outcome for one file of a directory check.
type CheckDirResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Result *Result // nil when the file failed to load
}

// ListSourceFiles returns every *.play file under dir, sorted.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
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

// CheckDir runs the front end and semantic passes over every source file
// under dir in parallel. Files are loaded up front into one FileSet; each
// worker then owns its file's arenas and diagnostics.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*source.FileSet, []CheckDirResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			// an empty stand-in keeps the diagnostic pointing at path
			fileID = fileSet.AddVirtual(path, nil)
			loadErrors[path] = err
		}
		fileIDs[path] = fileID
	}
	buildpipeline.EmitQueued(opts.Sink, files)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = DefaultMaxDiagnostics
	}

	// each goroutine writes only its own index
	results := make([]CheckDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fileID := fileIDs[path]
			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(maxDiag)
				diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{File: fileID},
					"failed to load file: "+loadErr.Error()).Emit()
				if opts.Sink != nil {
					opts.Sink.OnEvent(buildpipeline.Event{File: path, Stage: buildpipeline.StageParse,
						Status: buildpipeline.StatusError, Err: loadErr})
				}
				results[i] = CheckDirResult{Path: path, FileID: fileID, Bag: bag}
				return nil
			}

			res, err := compile(gctx, fileSet, fileSet.Get(fileID), Options{
				MaxDiagnostics: maxDiag,
				Sink:           opts.Sink,
				CheckOnly:      true,
			})
			if err != nil {
				return err
			}
			results[i] = CheckDirResult{Path: path, FileID: fileID, Bag: res.Bag, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
