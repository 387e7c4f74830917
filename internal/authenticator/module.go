package authenticator

import (
	"log/slog"

	"github.com/shandysiswandi/otpkit/internal/authenticator/importer"
	"github.com/shandysiswandi/otpkit/internal/authenticator/inbound"
	"github.com/shandysiswandi/otpkit/internal/authenticator/usecase"
	"github.com/shandysiswandi/otpkit/internal/pkg/clock"
	"github.com/shandysiswandi/otpkit/internal/pkg/config"
	"github.com/shandysiswandi/otpkit/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkit/internal/pkg/uid"
	"github.com/shandysiswandi/otpkit/internal/pkg/validator"
	"github.com/spf13/cobra"
)

type Dependency struct {
	Command    *cobra.Command             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Logger     *slog.Logger               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	im, err := importer.New(importer.Dependency{
		Logger:     dep.Logger,
		UUID:       dep.UUID,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Importer:   im,
		Validator:  dep.Validator,
		Config:     dep.Config,
		UUID:       dep.UUID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
		Logger:     dep.Logger,
	})

	inbound.RegisterCLICommand(dep.Command, uc)

	return nil
}
