package inbound

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/authenticator/importer"
	"github.com/shandysiswandi/otpkit/internal/authenticator/usecase"
	"github.com/spf13/cobra"
)

var errCodeRejected = errors.New("code rejected")

type uc interface {
	Import(ctx context.Context, in usecase.ImportInput) (*importer.Outcome, error)
	Export(ctx context.Context, in usecase.ExportInput) ([]byte, error)
	Codes(ctx context.Context, in usecase.CodesInput) ([]usecase.Code, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (bool, error)
	NewEntryFromURI(ctx context.Context, in usecase.NewEntryFromURIInput) (*entity.Entry, error)
}

// CLICommand holds the handlers behind the authenticator subcommands.
type CLICommand struct {
	uc uc
	// lookupEnv reads passwords; tests replace it.
	lookupEnv func(string) (string, bool)
}

// RegisterCLICommand attaches import, add, codes and verify to root.
func RegisterCLICommand(root *cobra.Command, uc uc) {
	cli := &CLICommand{uc: uc, lookupEnv: os.LookupEnv}

	root.AddCommand(
		cli.importCommand(),
		cli.addCommand(),
		cli.codesCommand(),
		cli.verifyCommand(),
	)
}

func (c *CLICommand) importCommand() *cobra.Command {
	var format, passwordEnv, encryptEnv string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Convert a backup into an otpkit export",
		Long: fmt.Sprintf(`Reads a backup produced by another authenticator and writes an otpkit
export to stdout. Records that cannot be converted are listed on stderr.

Formats: %s`, strings.Join(lo.Map(importer.Formats(), func(f importer.Format, _ int) string {
			return string(f)
		}), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.password(passwordEnv)
			if err != nil {
				return err
			}
			encrypt, err := c.password(encryptEnv)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out, err := c.uc.Import(ctx, usecase.ImportInput{Format: format, Data: data, Password: password})
			if err != nil {
				return err
			}

			for _, ie := range out.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", ie.Context, ie.Message)
			}

			export, err := c.uc.Export(ctx, usecase.ExportInput{Entries: out.Entries, Password: encrypt})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(export))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(importer.FormatNative), "backup format")
	cmd.Flags().StringVar(&passwordEnv, "password-env", "", "environment variable holding the backup password")
	cmd.Flags().StringVar(&encryptEnv, "encrypt-env", "", "environment variable holding a password to encrypt the output")

	return cmd
}

func (c *CLICommand) addCommand() *cobra.Command {
	var passwordEnv, note string

	cmd := &cobra.Command{
		Use:   "add FILE URI",
		Short: "Append an otpauth URI to an export",
		Long: `Reads an otpkit export, appends a new entry built from an otpauth:// URI and
writes the result to stdout. The output is encrypted with the same password as the input.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.password(passwordEnv)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			entries, err := c.load(ctx, args[0], password)
			if err != nil {
				return err
			}

			e, err := c.uc.NewEntryFromURI(ctx, usecase.NewEntryFromURIInput{URI: args[1], Note: note})
			if err != nil {
				return err
			}

			export, err := c.uc.Export(ctx, usecase.ExportInput{Entries: append(entries, *e), Password: password})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(export))
			return err
		},
	}

	cmd.Flags().StringVar(&passwordEnv, "password-env", "", "environment variable holding the export password")
	cmd.Flags().StringVar(&note, "note", "", "note stored with the entry")

	return cmd
}

func (c *CLICommand) codesCommand() *cobra.Command {
	var (
		passwordEnv string
		at          int64
	)

	cmd := &cobra.Command{
		Use:   "codes FILE",
		Short: "Print the current and next code of every entry in an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.password(passwordEnv)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			entries, err := c.load(ctx, args[0], password)
			if err != nil {
				return err
			}

			codes, err := c.uc.Codes(ctx, usecase.CodesInput{Entries: entries, At: unixOrZero(at)})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ISSUER\tNAME\tCODE\tNEXT\tVALID UNTIL")
			for _, code := range codes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					lo.CoalesceOrEmpty(code.Issuer, "-"),
					lo.CoalesceOrEmpty(code.Name, "-"),
					code.Current,
					code.Next,
					code.ValidUntil.UTC().Format(time.RFC3339),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&passwordEnv, "password-env", "", "environment variable holding the export password")
	cmd.Flags().Int64Var(&at, "at", 0, "unix time to generate codes for (default now)")

	return cmd
}

func (c *CLICommand) verifyCommand() *cobra.Command {
	var (
		passwordEnv string
		at          int64
	)

	cmd := &cobra.Command{
		Use:   "verify FILE ENTRY_ID CODE",
		Short: "Check a code against one entry of an export",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.password(passwordEnv)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			entries, err := c.load(ctx, args[0], password)
			if err != nil {
				return err
			}

			e, ok := lo.Find(entries, func(e entity.Entry) bool { return e.ID == args[1] })
			if !ok {
				return fmt.Errorf("entry %q not found", args[1])
			}

			valid, err := c.uc.Verify(ctx, usecase.VerifyInput{Entry: e, Code: args[2], At: unixOrZero(at)})
			if err != nil {
				return err
			}
			if !valid {
				return errCodeRejected
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}

	cmd.Flags().StringVar(&passwordEnv, "password-env", "", "environment variable holding the export password")
	cmd.Flags().Int64Var(&at, "at", 0, "unix time to verify at (default now)")

	return cmd
}

// load reads an otpkit export. Entries that fail to convert are fatal here.
func (c *CLICommand) load(ctx context.Context, path, password string) ([]entity.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	out, err := c.uc.Import(ctx, usecase.ImportInput{
		Format:   string(importer.FormatNative),
		Data:     data,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("%s: %s", out.Errors[0].Context, out.Errors[0].Message)
	}

	return out.Entries, nil
}

func (c *CLICommand) password(env string) (string, error) {
	if env == "" {
		return "", nil
	}

	v, ok := c.lookupEnv(env)
	if !ok || v == "" {
		return "", fmt.Errorf("environment variable %s is not set", env)
	}

	return v, nil
}

func unixOrZero(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
