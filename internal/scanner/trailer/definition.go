// Package trailer implements a trailer scanner that scrapes an HTML site
// described by a YAML definition.
package trailer

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed definitions/default.yml
var defaultDefinition []byte

// Definition describes how to search a trailer site and extract trailer links.
type Definition struct {
	Name    string        `yaml:"name"`
	Links   []string      `yaml:"links"`
	Search  SearchBlock   `yaml:"search"`
	Trailer []FieldSelect `yaml:"trailer"`
}

// SearchBlock defines the search page and how to read its result rows.
type SearchBlock struct {
	Path   string       `yaml:"path"`
	Rows   RowSelector  `yaml:"rows"`
	Fields SearchFields `yaml:"fields"`
}

// RowSelector selects one element per search result.
type RowSelector struct {
	Selector string `yaml:"selector"`
}

// SearchFields are extracted relative to each result row.
type SearchFields struct {
	Title FieldSelect `yaml:"title"`
	Year  FieldSelect `yaml:"year"`
	Link  FieldSelect `yaml:"link"`
}

// FieldSelect extracts text, or an attribute when Attribute is set.
type FieldSelect struct {
	Selector  string `yaml:"selector"`
	Attribute string `yaml:"attribute"`
}

// ParseDefinition parses a site definition from YAML bytes.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition YAML: %w", err)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinition reads a definition file. An empty path yields the built-in
// definition.
func LoadDefinition(path string) (*Definition, error) {
	if path == "" {
		return ParseDefinition(defaultDefinition)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	return ParseDefinition(data)
}

// BaseURL returns the primary site URL, if the definition names one.
func (d *Definition) BaseURL() string {
	if len(d.Links) > 0 {
		return d.Links[0]
	}
	return ""
}

func (d *Definition) validate() error {
	var errs []error
	if d.Search.Path == "" {
		errs = append(errs, errors.New("search.path is required"))
	}
	if d.Search.Rows.Selector == "" {
		errs = append(errs, errors.New("search.rows.selector is required"))
	}
	if d.Search.Fields.Link.Selector == "" {
		errs = append(errs, errors.New("search.fields.link.selector is required"))
	}
	if len(d.Trailer) == 0 {
		errs = append(errs, errors.New("at least one trailer selector is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid trailer definition %q: %w", d.Name, errors.Join(errs...))
	}
	return nil
}
