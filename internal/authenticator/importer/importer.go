package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkit/internal/pkg/uid"
	"github.com/shandysiswandi/otpkit/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "authenticator.importer"

type Format string

const (
	FormatAegis         Format = "aegis"
	FormatEnte          Format = "ente"
	FormatTwoFAS        Format = "2fas"
	FormatGoogle        Format = "google"
	FormatBitwardenJSON Format = "bitwarden-json"
	FormatBitwardenCSV  Format = "bitwarden-csv"
	FormatLastPass      Format = "lastpass"
	FormatNative        Format = "native"
)

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{
		FormatAegis, FormatEnte, FormatTwoFAS, FormatGoogle,
		FormatBitwardenJSON, FormatBitwardenCSV, FormatLastPass, FormatNative,
	}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Formats(), f) {
		return "", goerror.NewUnsupported(fmt.Sprintf("import format %q", s))
	}
	return f, nil
}

// Input is one import call. An empty Password means none was given.
type Input struct {
	Format   Format
	Data     []byte
	Password string
}

// ImportError describes a record that could not be imported.
type ImportError struct {
	Context string
	Message string
}

// Outcome holds the imported entries and the records that were skipped, both
// in source order.
type Outcome struct {
	Entries []entity.Entry
	Errors  []ImportError
}

type Dependency struct {
	Logger     *slog.Logger
	UUID       uid.StringID
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

// Importer converts third-party backups into entries.
//
// A container that cannot be read fails the whole call. A record that cannot
// be converted is reported in Outcome.Errors and the import continues.
type Importer struct {
	logger    *slog.Logger
	uuid      uid.StringID
	validator validator.Validator
	tracer    trace.Tracer

	entriesCounter metric.Int64Counter
	errorsCounter  metric.Int64Counter
}

func New(dep Dependency) (*Importer, error) {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}
	logger := dep.Logger
	if logger == nil {
		logger = instrument.Discard()
	}
	if dep.UUID == nil {
		return nil, errors.New("importer: uuid generator is required")
	}
	if dep.Validator == nil {
		return nil, errors.New("importer: validator is required")
	}

	meter := ins.Meter(instrumentationName)

	entriesCounter, err := meter.Int64Counter("importer.entries",
		metric.WithDescription("Entries produced by imports"))
	if err != nil {
		return nil, err
	}

	errorsCounter, err := meter.Int64Counter("importer.errors",
		metric.WithDescription("Records skipped by imports"))
	if err != nil {
		return nil, err
	}

	return &Importer{
		logger:         logger,
		uuid:           dep.UUID,
		validator:      dep.Validator,
		tracer:         ins.Tracer(instrumentationName),
		entriesCounter: entriesCounter,
		errorsCounter:  errorsCounter,
	}, nil
}

type normalizer func(ctx context.Context, c *collector, data []byte, password string) error

func (im *Importer) normalizer(f Format) (normalizer, error) {
	switch f {
	case FormatAegis:
		return im.importAegis, nil
	case FormatEnte:
		return im.importEnte, nil
	case FormatTwoFAS:
		return im.importTwoFAS, nil
	case FormatGoogle:
		return im.importGoogle, nil
	case FormatBitwardenJSON:
		return im.importBitwardenJSON, nil
	case FormatBitwardenCSV:
		return im.importBitwardenCSV, nil
	case FormatLastPass:
		return im.importLastPass, nil
	case FormatNative:
		return im.importNative, nil
	default:
		return nil, goerror.NewUnsupported(fmt.Sprintf("import format %q", f))
	}
}

// Import runs the normalizer for in.Format.
func (im *Importer) Import(ctx context.Context, in Input) (*Outcome, error) {
	fn, err := im.normalizer(in.Format)
	if err != nil {
		return nil, err
	}

	ctx, span := im.tracer.Start(ctx, "importer."+string(in.Format),
		trace.WithAttributes(attribute.String("import.format", string(in.Format))))
	defer span.End()

	c := &collector{
		format: in.Format,
		uuid:   im.uuid,
		logger: im.logger,
		out:    &Outcome{Entries: []entity.Entry{}, Errors: []ImportError{}},
	}

	if err := fn(ctx, c, in.Data, in.Password); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		im.logger.ErrorContext(ctx, "failed to import", "format", in.Format, "error", err)
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.String("import.format", string(in.Format)))
	im.entriesCounter.Add(ctx, int64(len(c.out.Entries)), attrs)
	im.errorsCounter.Add(ctx, int64(len(c.out.Errors)), attrs)

	span.SetAttributes(
		attribute.Int("import.entries", len(c.out.Entries)),
		attribute.Int("import.errors", len(c.out.Errors)),
	)

	return c.out, nil
}

// checkPassword enforces the password rules before any decryption.
func checkPassword(encrypted bool, password string) error {
	switch {
	case encrypted && password == "":
		return goerror.NewMissingPassword()
	case !encrypted && password != "":
		return goerror.NewPasswordNotNeeded()
	default:
		return nil
	}
}

// collector accumulates one import's outcome.
type collector struct {
	format Format
	uuid   uid.StringID
	logger *slog.Logger
	out    *Outcome
}

func (c *collector) add(content entity.Content, note string) {
	c.addWithID(c.uuid.Generate(), content, note)
}

func (c *collector) addWithID(id string, content entity.Content, note string) {
	c.out.Entries = append(c.out.Entries, entity.Entry{ID: id, Content: content, Note: note})
}

// fail records a skipped record. index is zero based; name may be empty.
func (c *collector) fail(ctx context.Context, index int, name string, err error) {
	where := fmt.Sprintf("%s entry #%d", c.format, index+1)
	if name != "" {
		where += " (" + name + ")"
	}

	c.logger.WarnContext(ctx, "skipped record", "format", c.format, "context", where, "error", err)
	c.out.Errors = append(c.out.Errors, ImportError{Context: where, Message: recordMessage(err)})
}

// decodeRecords unmarshals each raw record on its own. A record that does not
// decode into T is reported at its position and fn is not called for it.
func decodeRecords[T any](ctx context.Context, c *collector, raws []json.RawMessage, fn func(i int, rec T)) {
	for i, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			c.fail(ctx, i, "", fmt.Errorf("%w: %w", goerror.ErrMalformed, err))
			continue
		}
		fn(i, rec)
	}
}

// recordMessage drops the package prefix of entity errors.
func recordMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "entity: ")
}

// errUnsupportedKind is a per-record error for record kinds with no entry
// equivalent, such as HOTP.
func errUnsupportedKind(kind string) error {
	return fmt.Errorf("%w: %s entries", goerror.ErrUnsupported, strings.ToLower(kind))
}
