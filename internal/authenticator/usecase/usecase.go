package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpkit/internal/authenticator/importer"
	"github.com/shandysiswandi/otpkit/internal/pkg/clock"
	"github.com/shandysiswandi/otpkit/internal/pkg/config"
	"github.com/shandysiswandi/otpkit/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkit/internal/pkg/uid"
	"github.com/shandysiswandi/otpkit/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type entryImporter interface {
	Import(ctx context.Context, in importer.Input) (*importer.Outcome, error)
}

type Usecase struct {
	importer  entryImporter
	validator validator.Validator
	cfg       config.Config
	uuid      uid.StringID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	logger    *slog.Logger
}

type Dependency struct {
	Importer   entryImporter
	Validator  validator.Validator
	Config     config.Config
	UUID       uid.StringID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Logger     *slog.Logger
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		importer:  dep.Importer,
		validator: dep.Validator,
		cfg:       dep.Config,
		uuid:      dep.UUID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		logger:    dep.Logger,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("authenticator.usecase").Start(ctx, name)
}
