package model

import (
	"fmt"
	"strings"
	"time"
)

// Theme is the decorative planet tag attached to a project.
type Theme string

const (
	ThemeMercury Theme = "mercury"
	ThemeVenus   Theme = "venus"
	ThemeEarth   Theme = "earth"
	ThemeMars    Theme = "mars"
	ThemeJupiter Theme = "jupiter"
	ThemeSaturn  Theme = "saturn"
	ThemeUranus  Theme = "uranus"
	ThemeNeptune Theme = "neptune"
)

// DefaultTheme is used when a project is created without an explicit theme.
const DefaultTheme = ThemeEarth

func Themes() []Theme {
	return []Theme{
		ThemeMercury,
		ThemeVenus,
		ThemeEarth,
		ThemeMars,
		ThemeJupiter,
		ThemeSaturn,
		ThemeUranus,
		ThemeNeptune,
	}
}

// ParseTheme accepts a theme name case-insensitively. Empty input yields DefaultTheme.
func ParseTheme(s string) (Theme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultTheme, nil
	}
	for _, t := range Themes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid theme: %q (expected one of mercury|venus|earth|mars|jupiter|saturn|uranus|neptune)", s)
}

// DisplayName returns the capitalized theme name.
func (t Theme) DisplayName() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Theme       Theme     `json:"theme"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Column struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

type Card struct {
	ID        string    `json:"id"`
	ColumnID  string    `json:"columnId"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subtask has no order field; siblings render in insertion order.
type Subtask struct {
	ID        string    `json:"id"`
	CardID    string    `json:"cardId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}

// Sibling accessors used by the order index maintainer.

func (p *Project) OrderIndex() int { return p.Order }
func (p *Project) SetOrderIndex(i int) { p.Order = i }
func (p *Project) SortKey() (time.Time, string) { return p.CreatedAt, p.ID }

func (c *Column) OrderIndex() int { return c.Order }
func (c *Column) SetOrderIndex(i int) { c.Order = i }
func (c *Column) SortKey() (time.Time, string) { return c.CreatedAt, c.ID }

func (c *Card) OrderIndex() int { return c.Order }
func (c *Card) SetOrderIndex(i int) { c.Order = i }
func (c *Card) SortKey() (time.Time, string) { return c.CreatedAt, c.ID }
