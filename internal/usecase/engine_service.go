package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/engine"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/diff"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/expression"
	"github.com/Victor-armando18/payload-mapper/internal/interfaces"
	"github.com/Victor-armando18/payload-mapper/internal/usecase/runvalidation"
	"github.com/google/uuid"
)

// Dependencies of the engine service. Guards are optional.
type Dependencies struct {
	Configs       interfaces.ConfigLoader
	Vocabulary    interfaces.VocabularyLoader
	Guards        interfaces.GuardLoader
	GuardExecutor interfaces.GuardExecutor
	Logger        ectologger.Logger
	Now           func() time.Time
}

type EngineService struct {
	deps      Dependencies
	evaluator *expression.Evaluator
	validator *expression.Validator
	configs   *runvalidation.UseCase
	differ    *diff.Differ
}

func NewEngineService(deps Dependencies) interfaces.EngineFacade {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	evaluator := expression.NewEvaluator()
	validator := expression.NewValidator(evaluator)
	return &EngineService{
		deps:      deps,
		evaluator: evaluator,
		validator: validator,
		configs:   &runvalidation.UseCase{Validator: validator},
		differ:    diff.NewDiffer(),
	}
}

// Generate runs one generation pass. Field failures are reported in the
// report; an error is only returned when the pass could not start.
func (s *EngineService) Generate(ctx context.Context, req engine.RunRequest) (*engine.RunReport, error) {
	runID := uuid.New().String()
	log := s.deps.Logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":  runID,
		"country": req.Country,
		"config":  req.ConfigName,
	})

	if strings.TrimSpace(req.Country) == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "country is required")
	}
	if req.Record == nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "record is required")
	}
	cfg, err := s.configuration(ctx, req.Config, req.ConfigName)
	if err != nil {
		log.WithError(err).Error("Failed to resolve configuration")
		return nil, err
	}

	record := model.NormalizeRecord(req.Record, s.deps.Now())

	steps := []engine.ExecutionStep{}
	e := engine.NewEngine(s.evaluator)
	e.Observer = func(step engine.ExecutionStep) { steps = append(steps, step) }
	res := e.Generate(cfg, record, req.Country)

	report := &engine.RunReport{
		RunID:        runID,
		Country:      req.Country,
		Success:      res.Success,
		Payload:      res.Payload,
		Errors:       res.Errors,
		ExecutionLog: steps,
		GuardsHit:    []domain.GuardViolation{},
	}

	violations, err := s.runGuards(ctx, res.Payload)
	if err != nil {
		log.WithError(err).Error("Failed to run payload guards")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}
	report.GuardsHit = violations

	if req.Expected != nil {
		delta, err := s.differ.Payload(req.Expected, res.Payload)
		if err != nil {
			log.WithError(err).Warn("Failed to compare payload with the expected one")
		} else {
			matches := string(delta) == "{}"
			report.Delta = delta
			report.Matches = &matches
		}
	}

	fields := map[string]any{
		"success":     report.Success,
		"field_count": len(report.Payload),
		"error_count": len(report.Errors),
		"guards_hit":  len(report.GuardsHit),
	}
	if report.Success {
		log.WithFields(fields).Info("Generated payload")
	} else {
		log.WithFields(fields).Warn("Generated partial payload")
	}
	return report, nil
}

// Validate runs the configuration validator against the request vocabulary or
// the loaded one.
func (s *EngineService) Validate(ctx context.Context, req engine.ValidationRequest) (*engine.ValidationReport, error) {
	runID := uuid.New().String()
	log := s.deps.Logger.WithContext(ctx).WithFields(map[string]any{
		"run_id": runID,
		"config": req.ConfigName,
	})

	cfg, err := s.configuration(ctx, req.Config, req.ConfigName)
	if err != nil {
		log.WithError(err).Error("Failed to resolve configuration")
		return nil, err
	}

	vocab := req.Vocabulary
	if vocab == nil {
		if vocab, err = s.Vocabulary(ctx); err != nil {
			log.WithError(err).Error("Failed to load vocabulary")
			return nil, err
		}
	}

	diags := s.configs.Run(cfg, *vocab)
	report := &engine.ValidationReport{
		RunID:       runID,
		Diagnostics: diags,
		Summary:     domain.Summarize(diags),
	}
	if req.Previous != nil {
		delta := s.differ.Diagnostics(req.Previous, diags)
		report.Delta = &delta
	}

	log.WithFields(map[string]any{
		"valid":         report.Summary.Valid,
		"error_count":   report.Summary.ErrorCount,
		"warning_count": report.Summary.WarningCount,
	}).Info("Validated configuration")
	return report, nil
}

func (s *EngineService) ValidateExpression(ctx context.Context, expr string) (*domain.ExpressionValidationResult, error) {
	vocab, err := s.Vocabulary(ctx)
	if err != nil {
		return nil, err
	}
	res := s.validator.Validate(expr, vocab.InvoicingItems, vocab.MetadataVariables)
	return &res, nil
}

func (s *EngineService) Vocabulary(ctx context.Context) (*domain.Vocabulary, error) {
	if s.deps.Vocabulary == nil {
		return &domain.Vocabulary{
			InvoicingItems:    []domain.InvoicingItem{},
			MetadataVariables: []domain.MetadataVariable{},
		}, nil
	}
	vocab, err := s.deps.Vocabulary.Load(ctx)
	if err != nil {
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}
	return vocab, nil
}

func (s *EngineService) configuration(ctx context.Context, inline *domain.Configuration, name string) (*domain.Configuration, error) {
	if inline != nil {
		return inline, nil
	}
	if name == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "either config or configName is required")
	}
	if s.deps.Configs == nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "configuration %s not found", name)
	}
	cfg, err := s.deps.Configs.Load(ctx, name)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, domain.ErrConfigNotFound):
		return nil, httperror.WrapError(http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidConfiguration):
		return nil, httperror.WrapError(http.StatusUnprocessableEntity, err)
	default:
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}
}

func (s *EngineService) runGuards(ctx context.Context, payload map[string]any) ([]domain.GuardViolation, error) {
	hits := []domain.GuardViolation{}
	if s.deps.Guards == nil || s.deps.GuardExecutor == nil {
		return hits, nil
	}
	pack, err := s.deps.Guards.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, guard := range pack.Guards {
		violation, err := s.deps.GuardExecutor.Execute(ctx, guard, payload)
		if err != nil {
			s.deps.Logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"guard_id": guard.ID}).Warn("Guard could not be evaluated")
			continue
		}
		if violation != nil {
			hits = append(hits, *violation)
		}
	}
	return hits, nil
}
