package ingest

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Upstream captions join their parts with " · " and date ranges with " - ",
// e.g. "Jan 2020 - Present · 2 yrs" or "Berlin, Germany · Hybrid".
const (
	captionSep = " · "
	rangeSep   = " - "
)

// Captions mostly carry month-year dates; those layouts are matched
// explicitly, dateparse covers the long tail of full dates.
var captionDateLayouts = []string{"Jan 2006", "January 2006", "2006"}

func parseCaptionDate(s string) (time.Time, error) {
	for _, layout := range captionDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseAny(s)
}

// extractDateInfo pulls start date, end date and duration out of a caption.
// An end value of "present"/"current" means the position is ongoing. Dates
// are best effort: any parse failure degrades to (nil, nil, nil) and the
// caller decides whether to log.
func extractDateInfo(caption string) (start, end *time.Time, duration *string, err error) {
	parts := strings.SplitN(caption, captionSep, 2)
	dates := strings.SplitN(parts[0], rangeSep, 2)

	startStr := strings.TrimSpace(dates[0])
	if startStr != "" {
		s, perr := parseCaptionDate(startStr)
		if perr != nil {
			return nil, nil, nil, perr
		}
		start = &s
	}

	if len(dates) > 1 {
		endStr := strings.TrimSpace(dates[1])
		switch strings.ToLower(endStr) {
		case "", "present", "current":
			// ongoing
		default:
			e, perr := parseCaptionDate(endStr)
			if perr != nil {
				return nil, nil, nil, perr
			}
			end = &e
		}
	}

	if len(parts) > 1 {
		d := strings.TrimSpace(parts[1])
		if d != "" {
			duration = &d
		}
	}
	return start, end, duration, nil
}

// extractLocationWorkSetting splits "location · work setting" metadata.
func extractLocationWorkSetting(metadata string) (location, workSetting *string) {
	parts := strings.SplitN(metadata, captionSep, 2)
	if l := strings.TrimSpace(parts[0]); l != "" {
		location = &l
	}
	if len(parts) > 1 {
		if w := strings.TrimSpace(parts[1]); w != "" {
			workSetting = &w
		}
	}
	return location, workSetting
}
