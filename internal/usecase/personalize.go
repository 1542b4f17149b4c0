package usecase

import (
	"strings"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// personalize substitutes the fixed placeholder tokens with the lead's
// attribute values. This is a single left-to-right literal pass: substituted
// values are never rescanned, and unknown tokens are left as-is.
func personalize(content string, lead *entity.Lead) string {
	r := strings.NewReplacer(
		"[FIRST_NAME]", lead.FirstName,
		"[LAST_NAME]", lead.LastName,
		"[EMAIL]", lead.Email,
		"[COMPANY]", lead.Company,
		"[ROLE]", lead.Role,
	)
	return r.Replace(content)
}
