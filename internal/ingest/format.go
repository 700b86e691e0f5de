package ingest

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foliolab/folio-api/internal/domain/profile"
)

const (
	componentText    = "textComponent"
	componentInsight = "insightComponent"
)

// dateInfo parses a caption, degrading to empty values when the upstream
// free text is not parseable. Dates are never a reason to drop an entry.
func (t *Transformer) dateInfo(caption string) (start, end *time.Time, duration *string) {
	start, end, duration, err := extractDateInfo(caption)
	if err != nil {
		t.logger.Warn("unparseable date caption, keeping entry without dates",
			zap.String("caption", caption), zap.Error(err))
		return nil, nil, nil
	}
	return start, end, duration
}

// joinText concatenates the text of description components matching the given
// types. An empty types list accepts every component that carries text.
func joinText(components []Record, types ...string) *string {
	var parts []string
	for _, c := range components {
		text := c.Str("text")
		if text == "" {
			continue
		}
		if len(types) > 0 {
			matched := false
			for _, ty := range types {
				if c.Str("type") == ty {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " ")
	return &joined
}

// subComponentText gathers description text across every subComponent.
func subComponentText(rec Record, types ...string) *string {
	var all []Record
	for _, sub := range rec.List("subComponents") {
		all = append(all, sub.List("description")...)
	}
	return joinText(all, types...)
}

// formatExperience normalizes one raw employer entry. A "breakdown" entry
// holds several positions under one company record; a plain entry is a single
// position whose company sits in the subtitle.
func (t *Transformer) formatExperience(exp Record) (*profile.Experience, error) {
	if exp.Bool("breakdown") {
		company := exp.Str("title")
		if company == "" {
			return nil, fmt.Errorf("breakdown experience without company title")
		}

		var positions []profile.Position
		for _, pos := range exp.List("subComponents") {
			title := pos.Str("title")
			if title == "" {
				continue
			}
			start, end, duration := t.dateInfo(pos.Str("caption"))
			positions = append(positions, profile.Position{
				Title:       title,
				StartDate:   start,
				EndDate:     end,
				Duration:    duration,
				Description: joinText(pos.List("description"), componentText),
				Location:    exp.StrPtr("caption"),
				WorkSetting: pos.StrPtr("metadata"),
			})
		}
		if len(positions) == 0 {
			return nil, fmt.Errorf("breakdown experience %q has no usable positions", company)
		}

		return &profile.Experience{
			Company:           company,
			CompanyProfileURL: exp.StrPtr("companyLink1"),
			CompanyLogoURL:    exp.StrPtr("logo"),
			Positions:         positions,
		}, nil
	}

	title := exp.Str("title")
	if title == "" {
		return nil, fmt.Errorf("experience without position title")
	}
	company := strings.SplitN(exp.Str("subtitle"), captionSep, 2)[0]
	if company == "" {
		return nil, fmt.Errorf("experience %q without company subtitle", title)
	}

	start, end, duration := t.dateInfo(exp.Str("caption"))
	location, workSetting := extractLocationWorkSetting(exp.Str("metadata"))

	return &profile.Experience{
		Company:           company,
		CompanyProfileURL: exp.StrPtr("companyLink1"),
		CompanyLogoURL:    exp.StrPtr("logo"),
		Positions: []profile.Position{{
			Title:       title,
			StartDate:   start,
			EndDate:     end,
			Duration:    duration,
			Description: subComponentText(exp, componentText),
			Location:    location,
			WorkSetting: workSetting,
		}},
	}, nil
}

func (t *Transformer) formatEducation(edu Record) (*profile.Education, error) {
	school := edu.Str("title")
	if school == "" {
		return nil, fmt.Errorf("education without school title")
	}
	subtitle := edu.Str("subtitle")
	if subtitle == "" {
		return nil, fmt.Errorf("education %q without degree subtitle", school)
	}

	degreeParts := strings.SplitN(subtitle, ", ", 2)
	var fieldOfStudy *string
	if len(degreeParts) > 1 {
		fieldOfStudy = &degreeParts[1]
	}

	start, end, _ := t.dateInfo(edu.Str("caption"))

	return &profile.Education{
		School:           school,
		SchoolProfileURL: edu.StrPtr("companyLink1"),
		SchoolPictureURL: edu.StrPtr("logo"),
		Degree:           degreeParts[0],
		FieldOfStudy:     fieldOfStudy,
		StartDate:        start,
		EndDate:          end,
		Grade:            edu.StrPtr("grade"),
		Activities:       subComponentText(edu, componentInsight),
		Description:      subComponentText(edu, componentText),
	}, nil
}

func (t *Transformer) formatVolunteering(vol Record) (*profile.VolunteeringExperience, error) {
	role := vol.Str("title")
	if role == "" {
		return nil, fmt.Errorf("volunteering without role title")
	}
	organization := vol.Str("subtitle")
	if organization == "" {
		return nil, fmt.Errorf("volunteering %q without organization", role)
	}

	start, end, _ := t.dateInfo(vol.Str("caption"))

	return &profile.VolunteeringExperience{
		Role:                   role,
		Organization:           organization,
		OrganizationProfileURL: vol.StrPtr("companyLink1"),
		OrganizationLogoURL:    vol.StrPtr("logo"),
		Cause:                  vol.StrPtr("metadata"),
		StartDate:              start,
		EndDate:                end,
		Description:            subComponentText(vol),
	}, nil
}

func (t *Transformer) formatProject(prj Record) (*profile.Project, error) {
	title := prj.Str("title")
	if title == "" {
		return nil, fmt.Errorf("project without title")
	}

	start, end, _ := t.dateInfo(prj.Str("caption"))

	return &profile.Project{
		Title:          title,
		StartDate:      start,
		EndDate:        end,
		Description:    subComponentText(prj, componentText),
		URL:            prj.StrPtr("projectLink1"),
		AssociatedWith: prj.StrPtr("subtitle"),
		Thumbnail:      prj.StrPtr("thumbnail"),
	}, nil
}
