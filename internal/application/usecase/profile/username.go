package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/foliolab/folio-api/pkg/apperror"
)

var (
	profileURLPattern   = regexp.MustCompile(`^(?:https?://)?(?:[\w]+\.)?linkedin\.com/in/([\w\-]+)/?.*$`)
	bareUsernamePattern = regexp.MustCompile(`^[\w\-]+$`)
)

// ExtractUsername normalizes a profile URL or bare username into the
// canonical username. Trailing path segments and query strings on a full URL
// are ignored.
func (s *ProfileService) ExtractUsername(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", apperror.NewInvalidInput("profile link is empty", nil)
	}
	if m := profileURLPattern.FindStringSubmatch(link); m != nil {
		return m[1], nil
	}
	if bareUsernamePattern.MatchString(link) {
		return link, nil
	}
	return "", apperror.NewInvalidInput(fmt.Sprintf("cannot extract a username from '%s'", link), nil)
}
