package probe

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ppiankov/auditmatrix/internal/cache"
	"github.com/ppiankov/auditmatrix/internal/model"
)

// Engine evaluates a probe catalog against claims and source files
type Engine struct {
	fs       afero.Fs
	contents cache.Cache
	probes   []compiledProbe
	logger   *zap.Logger
}

type compiledProbe struct {
	model.Probe
	matcher *regexp.Regexp
}

// NewEngine compiles the catalog. It fails only on catalog errors
// (duplicate ids, bad patterns); evaluation itself never fails.
func NewEngine(fsys afero.Fs, contents cache.Cache, catalog []model.Probe, logger *zap.Logger) (*Engine, error) {
	if err := Validate(catalog); err != nil {
		return nil, err
	}
	if contents == nil {
		contents = cache.NewMemoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	probes := make([]compiledProbe, 0, len(catalog))
	for _, p := range catalog {
		matcher, err := compileMatcher(p.FeaturePattern)
		if err != nil {
			return nil, err
		}
		probes = append(probes, compiledProbe{Probe: p, matcher: matcher})
	}

	return &Engine{
		fs:       fsys,
		contents: contents,
		probes:   probes,
		logger:   logger,
	}, nil
}

// Probes returns the catalog in evaluation order
func (e *Engine) Probes() []model.Probe {
	out := make([]model.Probe, len(e.probes))
	for i, p := range e.probes {
		out[i] = p.Probe
	}
	return out
}

// Apply runs every probe in catalog order. The input claims are not
// modified; the returned copy carries the evidence. Each target file is
// read at most once per call.
func (e *Engine) Apply(claims []model.Claim, root string) ([]model.Claim, model.ProbeResults) {
	e.contents.Clear()

	annotated := make([]model.Claim, len(claims))
	for i, c := range claims {
		annotated[i] = c.Clone()
	}

	results := make(model.ProbeResults, 0, len(e.probes))
	for _, p := range e.probes {
		var selected []int
		for i, c := range annotated {
			if c.DeclaredStatus.UnderReported() && p.matcher.MatchString(c.Feature) {
				selected = append(selected, i)
			}
		}

		content := e.readTarget(filepath.Join(root, p.TargetFile))
		found := containsAll(content, p.RequiredMarkers)

		if found {
			for _, idx := range selected {
				annotated[idx].AddEvidence(p.ID)
			}
		}

		e.logger.Debug("probe evaluated",
			zap.String("probe", p.ID),
			zap.String("target", p.TargetFile),
			zap.Int("matched_claims", len(selected)),
			zap.Bool("evidence_found", found),
		)

		results = append(results, model.ProbeResult{
			ProbeID:                p.ID,
			Description:            p.Description,
			MatchedClaimCount:      len(selected),
			EvidenceFound:          found,
			RequiredIfClaimPresent: p.RequiredIfClaimPresent,
		})
	}

	e.logger.Debug("probe run finished",
		zap.Int("probes", len(results)),
		zap.Int("files_read", e.contents.Len()),
	)

	return annotated, results
}

// readTarget returns file contents through the cache. Missing or
// unreadable files read as empty.
func (e *Engine) readTarget(path string) string {
	key := cache.ContentKey(path)
	if data, ok := e.contents.Get(key); ok {
		e.logger.Debug("target cache hit", zap.String("path", path))
		return string(data)
	}

	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Debug("target file missing", zap.String("path", path))
		} else {
			e.logger.Warn("target file unreadable, treating as empty", zap.String("path", path), zap.Error(err))
		}
		data = []byte{}
	}

	e.contents.Set(key, data)
	return string(data)
}

// containsAll reports whether content is non-empty and holds every marker
func containsAll(content string, markers []string) bool {
	if content == "" {
		return false
	}
	for _, marker := range markers {
		if !strings.Contains(content, marker) {
			return false
		}
	}
	return true
}
