// Partial updates for content items and the site config.

package models

import "slices"

// ArtworkPatch lists the artwork fields to overwrite. Nil fields are kept.
type ArtworkPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Apply overwrites the fields set in p onto a.
func (p *ArtworkPatch) Apply(a *Artwork) {
	setIf(&a.Title, p.Title)
	setIf(&a.Description, p.Description)
	setIf(&a.Category, p.Category)
	setIf(&a.Date, p.Date)
	setIf(&a.Image, p.Image)
	if p.Tags != nil {
		a.Tags = slices.Clone(*p.Tags)
	}
}

// IsEmpty returns true if the patch changes nothing.
func (p *ArtworkPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Date == nil && p.Image == nil && p.Tags == nil
}

// VideoPatch lists the video fields to overwrite. Nil fields are kept.
type VideoPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Duration    *string   `json:"duration,omitempty"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Apply overwrites the fields set in p onto v.
func (p *VideoPatch) Apply(v *Video) {
	setIf(&v.Title, p.Title)
	setIf(&v.Description, p.Description)
	setIf(&v.URL, p.URL)
	setIf(&v.Duration, p.Duration)
	setIf(&v.Thumbnail, p.Thumbnail)
	setIf(&v.Date, p.Date)
	if p.Tags != nil {
		v.Tags = slices.Clone(*p.Tags)
	}
}

// IsEmpty returns true if the patch changes nothing.
func (p *VideoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.URL == nil && p.Duration == nil && p.Thumbnail == nil && p.Date == nil && p.Tags == nil
}

// SiteConfigPatch lists the top-level config fields to overwrite.
//
// The merge is one level deep: a non-nil SocialLinks or Theme replaces the
// whole nested record, so callers must carry over the nested values they want
// to keep.
type SiteConfigPatch struct {
	Title       *string      `json:"title,omitempty"`
	Subtitle    *string      `json:"subtitle,omitempty"`
	Description *string      `json:"description,omitempty"`
	HeroImage   *string      `json:"heroImage,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
	Theme       *Theme       `json:"theme,omitempty"`
}

// Apply overwrites the fields set in p onto c.
func (p *SiteConfigPatch) Apply(c *SiteConfig) {
	setIf(&c.Title, p.Title)
	setIf(&c.Subtitle, p.Subtitle)
	setIf(&c.Description, p.Description)
	setIf(&c.HeroImage, p.HeroImage)
	if p.SocialLinks != nil {
		c.SocialLinks = *p.SocialLinks
	}
	if p.Theme != nil {
		c.Theme = *p.Theme
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
