package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthPtr(y int, m time.Month) *time.Time {
	t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

func TestExtractDateInfo(t *testing.T) {
	tests := []struct {
		name     string
		caption  string
		start    *time.Time
		end      *time.Time
		duration *string
		wantErr  bool
	}{
		{
			name:     "ongoing with duration",
			caption:  "Jan 2020 - Present · 2 yrs",
			start:    monthPtr(2020, time.January),
			duration: strPtr("2 yrs"),
		},
		{
			name:     "closed range",
			caption:  "Mar 2018 - Jun 2019 · 1 yr 4 mos",
			start:    monthPtr(2018, time.March),
			end:      monthPtr(2019, time.June),
			duration: strPtr("1 yr 4 mos"),
		},
		{
			name:    "year only range",
			caption: "2015 - 2019",
			start:   monthPtr(2015, time.January),
			end:     monthPtr(2019, time.January),
		},
		{
			name:    "current keeps end open",
			caption: "Feb 2021 - Current",
			start:   monthPtr(2021, time.February),
		},
		{
			name:     "no range just duration",
			caption:  "Jan 2020 · 6 mos",
			start:    monthPtr(2020, time.January),
			duration: strPtr("6 mos"),
		},
		{
			name:    "empty caption",
			caption: "",
		},
		{
			name:    "unparseable start",
			caption: "sometime ago - Present",
			wantErr: true,
		},
		{
			name:    "unparseable end",
			caption: "Jan 2020 - later",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start, end, duration, err := extractDateInfo(tc.caption)
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, start)
				assert.Nil(t, end)
				assert.Nil(t, duration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
			assert.Equal(t, tc.duration, duration)
		})
	}
}

func TestExtractLocationWorkSetting(t *testing.T) {
	location, workSetting := extractLocationWorkSetting("Berlin, Germany · Hybrid")
	require.NotNil(t, location)
	require.NotNil(t, workSetting)
	assert.Equal(t, "Berlin, Germany", *location)
	assert.Equal(t, "Hybrid", *workSetting)

	location, workSetting = extractLocationWorkSetting("Remote")
	require.NotNil(t, location)
	assert.Equal(t, "Remote", *location)
	assert.Nil(t, workSetting)

	location, workSetting = extractLocationWorkSetting("")
	assert.Nil(t, location)
	assert.Nil(t, workSetting)
}
