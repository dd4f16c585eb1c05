// Package content holds the editable payload of each portfolio section.
package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio-builder/internal/section"
)

type Hero struct {
	Name     string `json:"name" yaml:"name"`
	Headline string `json:"headline" yaml:"headline"`
	Tagline  string `json:"tagline" yaml:"tagline"`
	CTA      string `json:"cta" yaml:"cta"`
}

type About struct {
	Bio    string   `json:"bio" yaml:"bio"`
	Skills []string `json:"skills" yaml:"skills"`
}

type Project struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url,omitempty"`
	Tags        []string `json:"tags" yaml:"tags,omitempty"`
}

type Projects struct {
	Heading string    `json:"heading" yaml:"heading"`
	Items   []Project `json:"items" yaml:"items"`
}

type Contact struct {
	Heading     string `json:"heading" yaml:"heading"`
	Email       string `json:"email" yaml:"email"`
	Location    string `json:"location" yaml:"location,omitempty"`
	Message     string `json:"message" yaml:"message"`
	FormEnabled bool   `json:"form_enabled" yaml:"form_enabled"`
}

// Portfolio maps every section to its payload.
type Portfolio struct {
	Hero     Hero     `json:"hero" yaml:"hero"`
	About    About    `json:"about" yaml:"about"`
	Projects Projects `json:"projects" yaml:"projects"`
	Contact  Contact  `json:"contact" yaml:"contact"`
}

// Clone returns a deep copy so callers can hand the payload to views without sharing slices.
func (p Portfolio) Clone() Portfolio {
	out := p
	out.About.Skills = append([]string(nil), p.About.Skills...)
	out.Projects.Items = make([]Project, len(p.Projects.Items))
	for i, item := range p.Projects.Items {
		item.Tags = append([]string(nil), item.Tags...)
		out.Projects.Items[i] = item
	}
	return out
}

// Export is the document written by the export action.
type Export struct {
	Sections []section.ID `yaml:"sections"`
	Content  Portfolio    `yaml:"content"`
}

// Encode renders the export as YAML.
func (e Export) Encode() ([]byte, error) {
	data, err := yaml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// LoadDefaults reads a YAML content file. Sections missing from the file keep the built-in defaults.
func LoadDefaults(path string) (Portfolio, error) {
	p := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read content defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse content defaults %s: %w", path, err)
	}
	return p, nil
}
