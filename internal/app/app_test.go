package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("OTPKIT_LOG_LEVEL", "error")

	a := New()
	t.Cleanup(func() { a.Stop(context.Background()) })

	assert.Equal(t, "otpkit", a.root.Name())
	assert.Equal(t, uint(1), a.config.GetUint("otp.verify_skew"))
	assert.Equal(t, "error", a.config.GetString("log.level"))
	assert.Contains(t, a.config.GetArray("log.mask_fields"), "uri")

	names := lo.Map(a.root.Commands(), func(c *cobra.Command, _ int) string { return c.Name() })
	for _, want := range []string{"import", "add", "codes", "verify"} {
		assert.Contains(t, names, want)
	}

	err := a.Run(context.Background(), []string{"verify"})
	assert.ErrorContains(t, err, "accepts 3 arg(s)")
}

func TestNew_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("otp:\n  verify_skew: 3\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	a := New()
	t.Cleanup(func() { a.Stop(context.Background()) })

	assert.Equal(t, uint(3), a.config.GetUint("otp.verify_skew"))
	assert.Equal(t, "otpkit", a.config.GetString("app.name"))
}

func TestRun_RecoversPanic(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("OTPKIT_LOG_LEVEL", "error")

	a := New()
	t.Cleanup(func() { a.Stop(context.Background()) })

	a.root.AddCommand(&cobra.Command{
		Use: "boom",
		RunE: func(*cobra.Command, []string) error {
			panic("boom")
		},
	})

	err := a.Run(context.Background(), []string{"boom"})
	assert.EqualError(t, err, "internal error: boom")
}
