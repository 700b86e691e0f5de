package ingest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

type fakeRelocator struct {
	mu    sync.Mutex
	calls map[string]string // source url -> stored path
	fail  map[string]error
}

func newFakeRelocator() *fakeRelocator {
	return &fakeRelocator{calls: make(map[string]string), fail: make(map[string]error)}
}

func (f *fakeRelocator) Relocate(_ context.Context, url, pathPrefix, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[url]; err != nil {
		return "", err
	}
	path := fmt.Sprintf("%s/%s", pathPrefix, filename)
	f.calls[url] = path
	return path, nil
}

func (f *fakeRelocator) Promote(_ context.Context, path string) (string, error) {
	return "published/" + path, nil
}

func (f *fakeRelocator) DeleteFolder(context.Context, string) error       { return nil }
func (f *fakeRelocator) DeletePublicFolder(context.Context, string) error { return nil }

func testOptions() Options {
	return Options{
		MaxAttempts:  2,
		RetryDelay:   time.Millisecond,
		MediaDomains: []string{"media.licdn.com", "static.licdn.com"},
	}
}

func rawPayload() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"publicIdentifier":   "jdoe",
			"firstName":          "Jane",
			"lastName":           "Doe",
			"headline":           "Staff Engineer",
			"about":              "I build things.",
			"addressWithCountry": "Berlin, Germany",
			"profilePic":         "https://media.licdn.com/dms/image/jdoe.jpg",
			"languages": []any{
				map[string]any{"title": "English"},
				map[string]any{"title": "German"},
			},
			"skills": []any{
				map[string]any{"title": "Go"},
				map[string]any{"caption": "no title, dropped"},
			},
			"experiences": []any{
				map[string]any{
					"breakdown":    true,
					"title":        "Acme Corp.",
					"companyLink1": "https://linkedin.com/company/acme",
					"logo":         "https://media.licdn.com/dms/image/acme.png",
					"caption":      "Berlin, Germany",
					"subComponents": []any{
						map[string]any{
							"title":   "Staff Engineer",
							"caption": "Jan 2022 - Present · 2 yrs",
							"description": []any{
								map[string]any{"type": "textComponent", "text": "Platform work."},
							},
						},
						map[string]any{
							"title":   "Senior Engineer",
							"caption": "Jan 2020 - Jan 2022 · 2 yrs",
						},
						map[string]any{
							"caption": "no title, skipped",
						},
					},
				},
				map[string]any{
					"title":    "Engineer",
					"subtitle": "Globex · Full-time",
					"caption":  "Mar 2018 - Dec 2019 · 1 yr 10 mos",
					"metadata": "Springfield · On-site",
				},
			},
			"educations": []any{
				map[string]any{
					"title":    "State University",
					"subtitle": "BSc, Computer Science",
					"caption":  "2014 - 2018",
				},
			},
		},
	}
}

func TestTransformBasicFields(t *testing.T) {
	tr := NewTransformer(newFakeRelocator(), logger.NewNop(), testOptions())

	p, err := tr.Transform(context.Background(), rawPayload(), false, nil)
	require.NoError(t, err)

	assert.Equal(t, "jdoe", p.Username)
	assert.Equal(t, "Jane", p.FirstName)
	assert.Equal(t, "Doe", p.LastName)
	require.NotNil(t, p.JobTitle)
	assert.Equal(t, "Staff Engineer", *p.JobTitle)
	require.NotNil(t, p.Location)
	assert.Equal(t, "Berlin, Germany", *p.Location)
	assert.Equal(t, []string{"English", "German"}, p.Languages)
	assert.Equal(t, []string{"Go"}, p.Skills)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestTransformBreakdownExperience(t *testing.T) {
	tr := NewTransformer(newFakeRelocator(), logger.NewNop(), testOptions())

	p, err := tr.Transform(context.Background(), rawPayload(), false, nil)
	require.NoError(t, err)
	require.Len(t, p.Experiences, 2)

	acme := p.Experiences[0]
	assert.Equal(t, "Acme Corp.", acme.Company)
	require.Len(t, acme.Positions, 2)
	assert.Equal(t, "Staff Engineer", acme.Positions[0].Title)
	assert.Nil(t, acme.Positions[0].EndDate)
	require.NotNil(t, acme.Positions[0].Description)
	assert.Equal(t, "Platform work.", *acme.Positions[0].Description)
	assert.Equal(t, "Senior Engineer", acme.Positions[1].Title)
	require.NotNil(t, acme.Positions[1].EndDate)

	globex := p.Experiences[1]
	assert.Equal(t, "Globex", globex.Company)
	require.Len(t, globex.Positions, 1)
	assert.Equal(t, "Engineer", globex.Positions[0].Title)
	require.NotNil(t, globex.Positions[0].Location)
	assert.Equal(t, "Springfield", *globex.Positions[0].Location)
	require.NotNil(t, globex.Positions[0].WorkSetting)
	assert.Equal(t, "On-site", *globex.Positions[0].WorkSetting)
}

func TestTransformDropsMalformedEntries(t *testing.T) {
	raw := rawPayload()
	data := raw["data"].(map[string]any)
	data["experiences"] = append(data["experiences"].([]any), map[string]any{
		"subtitle": "No Title Inc · Full-time",
	})

	tr := NewTransformer(newFakeRelocator(), logger.NewNop(), testOptions())
	p, err := tr.Transform(context.Background(), raw, false, nil)
	require.NoError(t, err)
	assert.Len(t, p.Experiences, 2)
}

func TestTransformValidation(t *testing.T) {
	tr := NewTransformer(newFakeRelocator(), logger.NewNop(), testOptions())
	ctx := context.Background()

	_, err := tr.Transform(ctx, nil, false, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = tr.Transform(ctx, map[string]any{"status": "ok"}, false, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	raw := rawPayload()
	delete(raw["data"].(map[string]any), "firstName")
	_, err = tr.Transform(ctx, raw, false, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestTransformGuestKeepsRemoteURLs(t *testing.T) {
	relocator := newFakeRelocator()
	tr := NewTransformer(relocator, logger.NewNop(), testOptions())

	p, err := tr.Transform(context.Background(), rawPayload(), false, nil)
	require.NoError(t, err)

	assert.Empty(t, relocator.calls)
	require.NotNil(t, p.ProfilePictureURL)
	assert.Equal(t, "https://media.licdn.com/dms/image/jdoe.jpg", *p.ProfilePictureURL)
}

func TestTransformAuthenticatedRelocatesMedia(t *testing.T) {
	relocator := newFakeRelocator()
	tr := NewTransformer(relocator, logger.NewNop(), testOptions())
	ownerID := uuid.New()

	p, err := tr.Transform(context.Background(), rawPayload(), true, &ownerID)
	require.NoError(t, err)

	prefix := fmt.Sprintf("%s/jdoe", ownerID)
	require.NotNil(t, p.ProfilePictureURL)
	assert.Equal(t, prefix+"/profile_picture", *p.ProfilePictureURL)
	require.NotNil(t, p.Experiences[0].CompanyLogoURL)
	assert.Equal(t, prefix+"/acme_corp_logo", *p.Experiences[0].CompanyLogoURL)
}

func TestTransformRelocationFailureUnsetsReference(t *testing.T) {
	relocator := newFakeRelocator()
	relocator.fail["https://media.licdn.com/dms/image/jdoe.jpg"] = fmt.Errorf("upstream 403")
	tr := NewTransformer(relocator, logger.NewNop(), testOptions())
	ownerID := uuid.New()

	p, err := tr.Transform(context.Background(), rawPayload(), true, &ownerID)
	require.NoError(t, err)

	assert.Nil(t, p.ProfilePictureURL)
	assert.NotNil(t, p.Experiences[0].CompanyLogoURL)
}

func TestTransformSkipsUnknownMediaHosts(t *testing.T) {
	raw := rawPayload()
	raw["data"].(map[string]any)["profilePic"] = "https://evil.example.com/pic.jpg"

	relocator := newFakeRelocator()
	tr := NewTransformer(relocator, logger.NewNop(), testOptions())
	ownerID := uuid.New()

	p, err := tr.Transform(context.Background(), raw, true, &ownerID)
	require.NoError(t, err)

	require.NotNil(t, p.ProfilePictureURL)
	assert.Equal(t, "https://evil.example.com/pic.jpg", *p.ProfilePictureURL)
	assert.NotContains(t, relocator.calls, "https://evil.example.com/pic.jpg")
}

func TestAllowedMediaHost(t *testing.T) {
	domains := testOptions().MediaDomains

	assert.True(t, AllowedMediaHost(domains, "https://media.licdn.com/dms/image/x.png"))
	assert.True(t, AllowedMediaHost(domains, "https://cdn.media.licdn.com/x.png"))
	assert.False(t, AllowedMediaHost(domains, "https://evil.com/media.licdn.com/x.png"))
	assert.False(t, AllowedMediaHost(domains, "https://notmedia.licdn.example.com/x.png"))
	assert.False(t, AllowedMediaHost(domains, "::not a url::"))
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Acme Corp.":      "acme_corp",
		"State University": "state_university",
		"A  B":            "a_b",
		"Ötzi GmbH":       "tzi_gmbh",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), "input %q", in)
	}
}
