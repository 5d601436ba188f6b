package pipeline

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ppiankov/auditmatrix/internal/cache"
	"github.com/ppiankov/auditmatrix/internal/extract"
	"github.com/ppiankov/auditmatrix/internal/model"
	"github.com/ppiankov/auditmatrix/internal/probe"
	"github.com/ppiankov/auditmatrix/internal/summary"
	"github.com/ppiankov/auditmatrix/internal/verify"
)

// Pipeline orchestrates one reconciliation run
type Pipeline struct {
	loader     *Loader
	parser     *extract.ChecklistParser
	engine     *probe.Engine
	summarizer *summary.Summarizer
	verifier   *verify.Verifier
	renderer   *Renderer
	logger     *zap.Logger
	config     *model.Config
}

// NewPipeline creates a pipeline over fsys with the given probe catalog.
// It fails only when the catalog cannot be compiled.
func NewPipeline(cfg *model.Config, fsys afero.Fs, catalog []model.Probe, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine, err := probe.NewEngine(fsys, cache.NewMemoryCache(), catalog, logger.Named("probe"))
	if err != nil {
		return nil, fmt.Errorf("build probe engine: %w", err)
	}

	return &Pipeline{
		loader:     NewLoader(fsys, cfg.Audit.MaxBytes),
		parser:     extract.NewChecklistParser(),
		engine:     engine,
		summarizer: summary.NewSummarizer(),
		verifier:   verify.NewVerifier(verify.RulesFromConfig(cfg.Verify)),
		renderer:   NewRenderer(fsys),
		logger:     logger,
		config:     cfg,
	}, nil
}

// Run reads the audit document, parses it, applies the probes and
// summarizes. Only reading the document can fail.
func (p *Pipeline) Run(auditPath, repoRoot string) (*model.Report, error) {
	// 1. Load document
	doc, err := p.loader.Load(auditPath)
	if err != nil {
		return nil, err
	}

	// 2. Parse claims
	claims := p.parser.Parse(doc.Text)
	p.logger.Debug("parsed audit document", zap.String("path", doc.Path), zap.Int("claims", len(claims)))

	// 3. Apply probes
	annotated, results := p.engine.Apply(claims, repoRoot)

	// 4. Summarize
	s := p.summarizer.Summarize(annotated)
	p.logger.Debug("summarized claims",
		zap.Int("total", s.TotalItems),
		zap.Int("stale_evidence", s.StaleEvidenceItems),
		zap.Int("sections", len(s.BySection)),
	)

	return &model.Report{
		AuditFile:    doc.Path,
		Summary:      s,
		ProbeResults: results,
		Items:        annotated,
	}, nil
}

// Verify applies the strict verification rules to a report
func (p *Pipeline) Verify(report *model.Report) verify.Result {
	return p.verifier.Verify(report.Summary, report.ProbeResults)
}

// RenderReport writes the JSON and Markdown outputs. Empty paths are skipped.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Info("wrote JSON", zap.String("path", jsonPath))
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.logger.Info("wrote Markdown", zap.String("path", mdPath))
	}

	return nil
}

// RenderSummary prints the console summary to w
func (p *Pipeline) RenderSummary(w io.Writer, report *model.Report, verification *verify.Result) {
	p.renderer.RenderSummary(w, report, verification)
}

// Probes returns the catalog Run evaluates, in evaluation order
func (p *Pipeline) Probes() []model.Probe {
	return p.engine.Probes()
}
