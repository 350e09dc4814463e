// Request field checks shared by the admin handlers.

package handlers

import (
	"strings"
	"time"

	"github.com/maruel/portfolio/internal/errors"
	"github.com/maruel/portfolio/internal/gallery"
	"github.com/maruel/portfolio/internal/models"
)

// FoundResponse reports whether a mutation matched an existing item.
type FoundResponse struct {
	Found bool `json:"found"`
}

// required checks that every named value is non-blank, in order.
func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return errors.MissingField(f[0])
		}
	}
	return nil
}

// notBlank rejects a patch that clears a required field.
func notBlank(name string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return errors.MissingField(name)
	}
	return nil
}

func checkDate(v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if _, err := time.Parse(models.DateLayout, *v); err != nil {
		return errors.InvalidFormat("date", "date must be YYYY-MM-DD")
	}
	return nil
}

func checkSort(s string, forVideos bool) error {
	if !gallery.ValidSort(s, forVideos) {
		return errors.InvalidFormat("sort", "unknown sort order "+s)
	}
	return nil
}

// cleanTags trims each tag and drops the empty ones.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func cleanTagsPtr(tags *[]string) *[]string {
	if tags == nil {
		return nil
	}
	c := cleanTags(*tags)
	return &c
}
