package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foliolab/folio-api/internal/domain/profile"
)

const relocateConcurrency = 4

type relocation struct {
	url      string
	filename string
	assign   func(*string)
}

// relocateMedia moves every allow-listed media reference into owned storage
// under {ownerID}/{username} (or {username} for guest-built records).
// Filenames derive from the owning entity's name, so a retried transform
// overwrites instead of accumulating copies. Failures degrade per field: the
// reference is unset, the profile survives.
func (t *Transformer) relocateMedia(ctx context.Context, p *profile.Profile, ownerID *uuid.UUID) {
	prefix := p.Username
	if ownerID != nil {
		prefix = fmt.Sprintf("%s/%s", ownerID, p.Username)
	}

	var jobs []relocation
	if p.ProfilePictureURL != nil {
		jobs = append(jobs, relocation{
			url:      *p.ProfilePictureURL,
			filename: "profile_picture",
			assign:   func(v *string) { p.ProfilePictureURL = v },
		})
	}
	for i := range p.Experiences {
		exp := &p.Experiences[i]
		if exp.CompanyLogoURL != nil {
			jobs = append(jobs, relocation{
				url:      *exp.CompanyLogoURL,
				filename: snakeCase(exp.Company) + "_logo",
				assign:   func(v *string) { exp.CompanyLogoURL = v },
			})
		}
	}
	for i := range p.Education {
		edu := &p.Education[i]
		if edu.SchoolPictureURL != nil {
			jobs = append(jobs, relocation{
				url:      *edu.SchoolPictureURL,
				filename: snakeCase(edu.School) + "_logo",
				assign:   func(v *string) { edu.SchoolPictureURL = v },
			})
		}
	}
	for i := range p.Volunteering {
		vol := &p.Volunteering[i]
		if vol.OrganizationLogoURL != nil {
			jobs = append(jobs, relocation{
				url:      *vol.OrganizationLogoURL,
				filename: snakeCase(vol.Organization) + "_logo",
				assign:   func(v *string) { vol.OrganizationLogoURL = v },
			})
		}
	}
	for i := range p.Projects {
		prj := &p.Projects[i]
		if prj.Thumbnail != nil {
			jobs = append(jobs, relocation{
				url:      *prj.Thumbnail,
				filename: snakeCase(prj.Title) + "_thumbnail",
				assign:   func(v *string) { prj.Thumbnail = v },
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(relocateConcurrency)
	for _, job := range jobs {
		if !AllowedMediaHost(t.opts.MediaDomains, job.url) {
			continue
		}
		g.Go(func() error {
			path, err := t.relocator.Relocate(gctx, job.url, prefix, job.filename)
			if err != nil {
				t.logger.Warn("media relocation failed, unsetting reference",
					zap.String("url", job.url),
					zap.String("filename", job.filename),
					zap.Error(err))
				job.assign(nil)
				return nil
			}
			job.assign(&path)
			return nil
		})
	}
	g.Wait()
}

// AllowedMediaHost reports whether the URL points at one of the configured
// upstream media domains. Every download path shares this gate; anything
// off-list is left in place untouched.
func AllowedMediaHost(domains []string, raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// snakeCase lowers a display name into a stable filename fragment:
// "Acme Corp." becomes "acme_corp".
func snakeCase(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
