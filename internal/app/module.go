package app

import (
	"os"

	"github.com/shandysiswandi/otpkit/internal/authenticator"
)

func (a *App) initModules() {
	if err := authenticator.New(authenticator.Dependency{
		Command:    a.root,
		Config:     a.config,
		Instrument: a.ins,
		Logger:     a.logger,
		UUID:       a.uuid,
		Clock:      a.clock,
		Validator:  a.validator,
	}); err != nil {
		a.logger.Error("failed to init module authenticator", "error", err)
		os.Exit(1)
	}
}
