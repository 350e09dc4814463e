// Package models defines the core data structures used throughout the application.
package models

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// DateLayout is the textual form of calendar dates stored on content items.
const DateLayout = "2006-01-02"

// ID identifies an artwork or a video within its collection.
type ID int64

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses the decimal form of an ID.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", s)
	}
	return ID(v), nil
}

// FormatDate returns the calendar date of t in YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Artwork is an image shown in the gallery.
type Artwork struct {
	ID          ID       `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Date        string   `json:"date" yaml:"date"`
	Image       string   `json:"image" yaml:"image" jsonschema:"description=Data URL or external image URL"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Clone returns a deep copy of the artwork.
func (a *Artwork) Clone() Artwork {
	c := *a
	c.Tags = slices.Clone(a.Tags)
	return c
}

// GetID returns the artwork ID.
func (a *Artwork) GetID() ID {
	return a.ID
}

// Validate checks the invariants the content store maintains for stored artworks.
func (a *Artwork) Validate() error {
	if a.ID <= 0 {
		return errors.New("id must be positive")
	}
	return validateDate(a.Date)
}

// Video is an externally hosted video shown in the video gallery.
type Video struct {
	ID          ID     `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url" jsonschema:"description=Link to a playable media resource"`
	// Duration is free-form text such as "5:30".
	Duration  string   `json:"duration" yaml:"duration"`
	Thumbnail string   `json:"thumbnail" yaml:"thumbnail"`
	Date      string   `json:"date" yaml:"date"`
	Tags      []string `json:"tags" yaml:"tags"`
}

// Clone returns a deep copy of the video.
func (v *Video) Clone() Video {
	c := *v
	c.Tags = slices.Clone(v.Tags)
	return c
}

// GetID returns the video ID.
func (v *Video) GetID() ID {
	return v.ID
}

// Validate checks the invariants the content store maintains for stored videos.
func (v *Video) Validate() error {
	if v.ID <= 0 {
		return errors.New("id must be positive")
	}
	return validateDate(v.Date)
}

// SocialLinks lists the owner's contact points.
type SocialLinks struct {
	Email     string `json:"email" yaml:"email"`
	Instagram string `json:"instagram" yaml:"instagram"`
	Twitter   string `json:"twitter" yaml:"twitter"`
	YouTube   string `json:"youtube" yaml:"youtube"`
}

// Theme holds the site's accent colors.
type Theme struct {
	PrimaryColor string `json:"primaryColor" yaml:"primaryColor"`
	AccentColor  string `json:"accentColor" yaml:"accentColor"`
}

// SiteConfig is the singleton record of site-wide display settings.
type SiteConfig struct {
	Title       string      `json:"title" yaml:"title"`
	Subtitle    string      `json:"subtitle" yaml:"subtitle"`
	Description string      `json:"description" yaml:"description"`
	HeroImage   string      `json:"heroImage" yaml:"heroImage"`
	SocialLinks SocialLinks `json:"socialLinks" yaml:"socialLinks"`
	Theme       Theme       `json:"theme" yaml:"theme"`
}

// Clone returns a copy of the config.
func (c *SiteConfig) Clone() SiteConfig {
	return *c
}

func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	return nil
}
