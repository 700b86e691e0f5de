package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolab/folio-api/pkg/apperror"
)

func TestExtractUsername(t *testing.T) {
	f := newFixture()

	valid := map[string]string{
		"https://www.linkedin.com/in/jane-doe":        "jane-doe",
		"https://linkedin.com/in/jane-doe/":           "jane-doe",
		"http://de.linkedin.com/in/jane_doe":          "jane_doe",
		"linkedin.com/in/jane-doe":                    "jane-doe",
		"www.linkedin.com/in/jane-doe/details/":       "jane-doe",
		"https://www.linkedin.com/in/jane-doe?utm=x":  "jane-doe",
		"jane-doe":                                    "jane-doe",
		"  jane-doe  ":                                "jane-doe",
		"jane_doe42":                                  "jane_doe42",
	}
	for link, want := range valid {
		got, err := f.svc.ExtractUsername(link)
		require.NoError(t, err, "link %q", link)
		assert.Equal(t, want, got, "link %q", link)
	}

	invalid := []string{
		"",
		"   ",
		"https://www.linkedin.com/company/acme",
		"https://example.com/in/jane-doe",
		"jane doe",
		"jane/doe",
	}
	for _, link := range invalid {
		_, err := f.svc.ExtractUsername(link)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "link %q", link)
	}
}
