// Package sanitize strips markup from user-supplied text.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"bazaar/internal/domain/service"
)

// strictSanitizer removes all HTML tags and script content from review
// comments before they are persisted.
type strictSanitizer struct {
	policy *bluemonday.Policy
}

// NewCommentSanitizer returns a sanitizer that allows no markup at all.
func NewCommentSanitizer() service.CommentSanitizer {
	return &strictSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *strictSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}
