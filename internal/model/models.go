// Package model defines the data models for the Composer or Pasta bot.
package model

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the answer classification of a round's prompt.
type Category string

// Answer categories.
const (
	CategoryComposer Category = "COMPOSER"
	CategoryPasta    Category = "PASTA"
)

// ParseCategory converts a button value into a Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryComposer:
		return CategoryComposer, true
	case CategoryPasta:
		return CategoryPasta, true
	default:
		return "", false
	}
}

// Label returns the lowercase display word for the category.
func (c Category) Label() string {
	switch c {
	case CategoryComposer:
		return "composer"
	case CategoryPasta:
		return "pasta"
	default:
		return strings.ToLower(string(c))
	}
}

// PlayerRecord is a player's cross-session statistics.
// The YAML keys match the player data file written by earlier versions of the bot.
type PlayerRecord struct {
	Name        string `yaml:"Name" db:"name"`
	HighScore   int    `yaml:"High score" db:"high_score"`
	GamesPlayed int    `yaml:"Number of games played" db:"games_played"`
}

// Fields returns the record as field name/value pairs sorted by field name.
func (r PlayerRecord) Fields() [][2]string {
	fields := [][2]string{
		{"High score", fmt.Sprintf("%d", r.HighScore)},
		{"Name", r.Name},
		{"Number of games played", fmt.Sprintf("%d", r.GamesPlayed)},
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i][0] < fields[j][0]
	})
	return fields
}

// Details is a list of facts about a composer.
// In YAML it may be written either as a sequence or as a single string.
type Details []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (d *Details) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*d = nil
			return nil
		}
		*d = Details{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*d = items
		return nil
	default:
		return fmt.Errorf("composer details must be a string or a list, got YAML kind %d", node.Kind)
	}
}

// Catalog holds the two question catalogs.
type Catalog struct {
	Composers map[string]Details
	Pastas    map[string]string
}

// NewCatalog creates a catalog, treating nil maps as empty.
func NewCatalog(composers map[string]Details, pastas map[string]string) *Catalog {
	if composers == nil {
		composers = make(map[string]Details)
	}
	if pastas == nil {
		pastas = make(map[string]string)
	}
	return &Catalog{Composers: composers, Pastas: pastas}
}

// ComposerNames returns the composer names sorted alphabetically.
func (c *Catalog) ComposerNames() []string {
	return sortedKeys(c.Composers)
}

// PastaNames returns the pasta names sorted alphabetically.
func (c *Catalog) PastaNames() []string {
	return sortedKeys(c.Pastas)
}

// Clashes returns the names that appear in both catalogs, sorted.
func (c *Catalog) Clashes() []string {
	var clashes []string
	for name := range c.Composers {
		if _, ok := c.Pastas[name]; ok {
			clashes = append(clashes, name)
		}
	}
	sort.Strings(clashes)
	return clashes
}

// Detail returns the descriptive text for a name in the given category.
func (c *Catalog) Detail(category Category, name string) string {
	switch category {
	case CategoryComposer:
		return strings.Join(c.Composers[name], ", ")
	case CategoryPasta:
		return c.Pastas[name]
	default:
		return ""
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
