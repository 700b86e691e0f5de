package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foliolab/folio-api/internal/application/service"
	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

// TransformError marks a transformation-internal failure that is worth
// retrying. Validation failures never wear this type; they carry
// apperror.ErrInvalidInput and abort immediately.
type TransformError struct {
	Op  string
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Op, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

type Options struct {
	// MaxAttempts bounds how often a failing transform is run in total.
	MaxAttempts int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
	// MediaDomains is the allow-list of hosts whose assets are relocated.
	MediaDomains []string
}

const (
	defaultMaxAttempts = 4
	defaultRetryDelay  = time.Second
)

// Transformer turns the raw upstream payload into a Profile aggregate. Its
// only side effect is media relocation through the injected Relocator.
type Transformer struct {
	relocator service.Relocator
	logger    logger.Logger
	opts      Options
}

func NewTransformer(relocator service.Relocator, log logger.Logger, opts Options) *Transformer {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &Transformer{relocator: relocator, logger: log, opts: opts}
}

// Transform validates and normalizes the raw payload. Authenticated
// transforms relocate allow-listed media under the owner's folder; guest
// transforms keep remote URLs untouched. Retries are bounded and use a fixed
// delay; validation failures are never retried.
func (t *Transformer) Transform(ctx context.Context, raw map[string]any, authenticated bool, ownerID *uuid.UUID) (*profile.Profile, error) {
	var result *profile.Profile

	attempt := 0
	operation := func() error {
		attempt++
		p, err := t.transformOnce(ctx, raw, authenticated, ownerID)
		if err != nil {
			if errors.Is(err, apperror.ErrInvalidInput) {
				return backoff.Permanent(err)
			}
			t.logger.Warn("transform attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", t.opts.MaxAttempts),
				zap.Error(err))
			return err
		}
		result = p
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(t.opts.RetryDelay), uint64(t.opts.MaxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func (t *Transformer) transformOnce(ctx context.Context, raw map[string]any, authenticated bool, ownerID *uuid.UUID) (p *profile.Profile, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = &TransformError{Op: "transform", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	data, err := t.validate(raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p = &profile.Profile{
		ID:                uuid.New(),
		Username:          data.Str("publicIdentifier"),
		FirstName:         data.Str("firstName"),
		LastName:          data.Str("lastName"),
		ProfilePictureURL: data.StrPtr("profilePic"),
		JobTitle:          data.StrPtr("headline"),
		Headline:          data.StrPtr("headline"),
		About:             data.StrPtr("about"),
		Email:             data.StrPtr("email"),
		Location:          data.StrPtr("addressWithCountry"),
		Languages:         collectTitles(data.List("languages")),
		Skills:            collectTitles(data.List("skills")),
		Experiences:       collect(t, data.List("experiences"), t.formatExperience, "experience"),
		Education:         collect(t, data.List("educations"), t.formatEducation, "education"),
		Volunteering:      collect(t, data.List("volunteerAndAwards"), t.formatVolunteering, "volunteering"),
		Projects:          collect(t, data.List("projects"), t.formatProject, "project"),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if authenticated {
		t.relocateMedia(ctx, p, ownerID)
	}
	return p, nil
}

// validate enforces the fatal preconditions: a payload, a data envelope and
// the identity fields. Everything else degrades per entry.
func (t *Transformer) validate(raw map[string]any) (Record, error) {
	if raw == nil {
		return nil, apperror.NewInvalidInput("raw payload is empty", nil)
	}
	rec := Record(raw)
	data := rec.Map("data")
	if data == nil {
		return nil, apperror.NewInvalidInput("raw payload has no data envelope", nil)
	}
	for _, field := range []string{"publicIdentifier", "firstName", "lastName"} {
		if data.Str(field) == "" {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("raw payload is missing %s", field), nil)
		}
	}
	return data, nil
}

// collect maps raw entries through a formatter, dropping entries the
// formatter rejects. A dropped entry is logged, never fatal.
func collect[T any](t *Transformer, entries []Record, format func(Record) (*T, error), kind string) []T {
	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		item, err := format(entry)
		if err != nil {
			t.logger.Warn("dropping malformed entry",
				zap.String("kind", kind), zap.Error(err))
			continue
		}
		out = append(out, *item)
	}
	return out
}

func collectTitles(entries []Record) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if title := entry.Str("title"); title != "" {
			out = append(out, title)
		}
	}
	return out
}
