package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fluids/internal/catalogue"
	"fluids/internal/history"
	"fluids/internal/logging"
	"fluids/internal/request"
	"fluids/internal/table"
	"fluids/internal/units"
)

// Transport downloads a planned request.
type Transport interface {
	Fetch(ctx context.Context, plan request.Plan) (string, error)
}

// Names resolves substance IDs to display names.
type Names interface {
	Refresh(ctx context.Context, force bool) (catalogue.RefreshResult, error)
	LookupByID(id string) (string, bool, error)
	NameOf(id string) string
}

// Recorder persists completed runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// ResolutionError reports a substance ID missing from the catalogue when the
// caller required a name.
type ResolutionError struct {
	ID  string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve substance %s: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("substance %s not found in catalogue", e.ID)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// EmptyResponseError reports a data response with no rows after the echoed
// input line. Nothing is written for such a run.
type EmptyResponseError struct {
	URL string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("data %s: service returned no data rows", e.URL)
}

// Input is one run's request plus invocation options.
type Input struct {
	Request request.Request
	// Output overrides the default <prefix>_<tag>.dat filename.
	Output string
	// ResolveName makes a missing catalogue entry fatal.
	ResolveName bool
}

// Summary describes a completed run.
type Summary struct {
	RunID         string
	SubstanceName string
	Plan          request.Plan
	Table         table.Result
	Duration      time.Duration
}

// Service executes runs.
type Service struct {
	transport    Transport
	names        Names
	recorder     Recorder
	baseURL      string
	outputPrefix string
	source       string
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNames attaches the catalogue used for name resolution.
func WithNames(names Names) Option {
	return func(s *Service) { s.names = names }
}

// WithRecorder attaches the history ledger.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// WithOutputPrefix sets the default output filename prefix.
func WithOutputPrefix(prefix string) Option {
	return func(s *Service) { s.outputPrefix = prefix }
}

// WithSource overrides the citation written into output headers.
func WithSource(source string) Option {
	return func(s *Service) { s.source = source }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for provenance timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service that sends requests to baseURL through
// transport.
func NewService(transport Transport, baseURL string, opts ...Option) (*Service, error) {
	if transport == nil {
		return nil, errors.New("fetch transport required")
	}
	if baseURL == "" {
		return nil, errors.New("service base url required")
	}
	s := &Service{
		transport: transport,
		baseURL:   baseURL,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "fetch")
	return s, nil
}

// Run executes in.
func (s *Service) Run(ctx context.Context, in Input) (Summary, error) {
	started := s.now()
	summary := Summary{RunID: uuid.NewString()}

	req := in.Request
	if err := req.Validate(); err != nil {
		return summary, err
	}
	labels, err := units.Resolve(req.Units)
	if err != nil {
		return summary, &request.UsageError{Field: "units", Msg: err.Error()}
	}

	logger := s.logger.With(
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String(logging.FieldSubstanceID, req.SubstanceID),
		logging.String(logging.FieldVariant, req.Variant.Tag()),
	)

	name, err := s.resolveName(ctx, logger, req.SubstanceID, in.ResolveName)
	if err != nil {
		return summary, err
	}
	summary.SubstanceName = name

	plan, err := request.Build(req, labels, request.BuildOptions{
		BaseURL:      s.baseURL,
		OutputPrefix: s.outputPrefix,
		Output:       in.Output,
	})
	if err != nil {
		return summary, err
	}
	summary.Plan = plan
	logger.Debug("request planned",
		logging.String("data_url", plan.DataURL),
		logging.String("output_path", plan.OutputPath))

	body, err := s.transport.Fetch(ctx, plan)
	if err != nil {
		logging.ErrorWithContext(logger, "fetch failed", "fetch_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access and the service base_url"))
		return summary, err
	}

	if table.DataRows(body) == 0 {
		err := &EmptyResponseError{URL: plan.DataURL}
		logging.ErrorWithContext(logger, "service returned no data rows", "empty_response",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no output file written"),
			logging.String(logging.FieldErrorHint, "check the request ranges and substance ID against the service"))
		return summary, err
	}

	if dir := filepath.Dir(plan.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return summary, fmt.Errorf("create output directory: %w", err)
		}
	}
	result, err := table.WriteFile(plan.OutputPath, table.Document{
		Provenance: table.Provenance{
			Source:        s.source,
			SubstanceID:   req.SubstanceID,
			SubstanceName: name,
			Variant:       req.Variant.Tag(),
			Timestamp:     started,
			RunID:         summary.RunID,
		},
		Labels: labels,
		Body:   body,
	})
	if err != nil {
		return summary, err
	}
	summary.Table = result

	if !result.Recognized {
		logging.WarnWithContext(logger, "response format not recognized; wrote data without column legend", "format_unrecognized",
			logging.Int("columns", result.Columns),
			logging.String(logging.FieldImpact, "output file has no column legend"),
			logging.String(logging.FieldErrorHint, "inspect the output file; the service may have changed its table layout"))
	}

	summary.Duration = s.now().Sub(started)
	s.record(ctx, logger, summary, req, started)

	logger.Info("fetch complete",
		logging.String(logging.FieldEventType, "fetch_complete"),
		logging.String("output_path", plan.OutputPath),
		logging.Int("rows", result.Rows),
		logging.Int("columns", result.Columns),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}

func (s *Service) resolveName(ctx context.Context, logger *slog.Logger, id string, required bool) (string, error) {
	if s.names == nil {
		if required {
			return "", &ResolutionError{ID: id, Err: errors.New("no catalogue configured")}
		}
		return catalogue.NotAvailable, nil
	}
	if !required {
		return s.names.NameOf(id), nil
	}

	if _, err := s.names.Refresh(ctx, false); err != nil {
		logging.WarnWithContext(logger, "catalogue refresh failed; using existing catalogue", "catalogue_refresh_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "substance names may be out of date"),
			logging.String(logging.FieldErrorHint, "run 'fluids catalogue refresh --force' once the service is reachable"))
	}
	name, ok, err := s.names.LookupByID(id)
	if err != nil {
		return "", &ResolutionError{ID: id, Err: err}
	}
	if !ok {
		return "", &ResolutionError{ID: id}
	}
	return name, nil
}

func (s *Service) record(ctx context.Context, logger *slog.Logger, summary Summary, req request.Request, started time.Time) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, history.Run{
		ID:            summary.RunID,
		StartedAt:     started,
		SubstanceID:   req.SubstanceID,
		SubstanceName: summary.SubstanceName,
		Variant:       req.Variant.Tag(),
		OutputPath:    summary.Plan.OutputPath,
		Columns:       summary.Table.Columns,
		Layout:        summary.Table.Layout,
		Recognized:    summary.Table.Recognized,
		Rows:          summary.Table.Rows,
		DataURL:       summary.Plan.DataURL,
	})
	if err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run is missing from 'fluids history'"),
			logging.String(logging.FieldErrorHint, "check paths.history_path permissions"))
	}
}
