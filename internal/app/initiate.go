package app

import (
	"context"
	_ "embed"
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpkit/internal/pkg/clock"
	"github.com/shandysiswandi/otpkit/internal/pkg/config"
	"github.com/shandysiswandi/otpkit/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkit/internal/pkg/uid"
	"github.com/shandysiswandi/otpkit/internal/pkg/validator"
	"github.com/spf13/cobra"
)

//go:embed config.yaml
var defaultConfig []byte

func (a *App) initConfig() {
	cfg, err := config.NewViper("yaml", defaultConfig, os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("telemetry.enabled"),
		ServiceName:      a.config.GetString("app.name"),
		ServiceVersion:   a.config.GetString("app.version"),
		OTLPEndpoint:     a.config.GetString("telemetry.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("telemetry.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("telemetry.trace_sample_ratio"),
		MetricsInterval:  a.config.GetDuration("telemetry.metrics_interval"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}

	a.ins = ins
}

func (a *App) initLogger() {
	a.logger = instrument.NewLogger(instrument.LoggerConfig{
		ServiceName: a.config.GetString("app.name"),
		Level:       a.config.GetString("log.level"),
		MaskFields:  a.config.GetArray("log.mask_fields"),
		Provider:    a.ins.LoggerProvider(),
	})
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()

	v, err := validator.NewV10Validator()
	if err != nil {
		a.logger.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = v
}

func (a *App) initCommand() {
	a.root = &cobra.Command{
		Use:   a.config.GetString("app.name"),
		Short: "Offline authenticator toolkit",
		Long: `otpkit converts authenticator backups (Aegis, Ente, 2FAS, Google Authenticator,
Bitwarden, LastPass) into one export format and generates TOTP and Steam Guard
codes from it.`,
		Version:       a.config.GetString("app.version"),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
