package app

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpkit/internal/pkg/clock"
	"github.com/shandysiswandi/otpkit/internal/pkg/config"
	"github.com/shandysiswandi/otpkit/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkit/internal/pkg/uid"
	"github.com/shandysiswandi/otpkit/internal/pkg/validator"
	"github.com/spf13/cobra"
)

// App wires dependencies and owns the command tree.
type App struct {
	// configuration
	config config.Config
	ins    instrument.Instrumentation
	logger *slog.Logger

	// libraries
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID

	// command
	root *cobra.Command

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application and exits the process when wiring fails.
func New() *App {
	app := &App{}

	app.initConfig()
	app.initInstrument()
	app.initLogger()
	app.initLibraries()
	app.initCommand()
	app.initModules()
	app.initClosers()

	return app
}
