package main

import (
	"strings"

	"github.com/Zachkp/portfolio-builder/internal/content"
	"github.com/Zachkp/portfolio-builder/internal/section"
)

// sectionForm is the editor form of one section.
type sectionForm interface {
	apply(*content.Portfolio)
}

func newSectionForm(id section.ID) sectionForm {
	switch id {
	case section.Hero:
		return &heroForm{}
	case section.About:
		return &aboutForm{}
	case section.Projects:
		return &projectsForm{}
	case section.Contact:
		return &contactForm{}
	default:
		return nil
	}
}

type heroForm struct {
	Name     string `form:"name" binding:"required,max=80"`
	Headline string `form:"headline" binding:"max=120"`
	Tagline  string `form:"tagline" binding:"max=280"`
	CTA      string `form:"cta" binding:"max=40"`
}

func (f *heroForm) apply(p *content.Portfolio) {
	p.Hero = content.Hero{
		Name:     strings.TrimSpace(f.Name),
		Headline: strings.TrimSpace(f.Headline),
		Tagline:  strings.TrimSpace(f.Tagline),
		CTA:      strings.TrimSpace(f.CTA),
	}
}

type aboutForm struct {
	Bio    string `form:"bio" binding:"max=2000"`
	Skills string `form:"skills" binding:"max=500"`
}

func (f *aboutForm) apply(p *content.Portfolio) {
	p.About = content.About{Bio: strings.TrimSpace(f.Bio), Skills: splitList(f.Skills)}
}

// projectsForm carries one value per project row; rows line up by index.
type projectsForm struct {
	Heading      string   `form:"heading" binding:"required,max=80"`
	Titles       []string `form:"title" binding:"dive,max=120"`
	Descriptions []string `form:"description" binding:"dive,max=1000"`
	URLs         []string `form:"url" binding:"dive,omitempty,url"`
	Tags         []string `form:"tags"`
}

func (f *projectsForm) apply(p *content.Portfolio) {
	at := func(vals []string, i int) string {
		if i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}
	items := make([]content.Project, 0, len(f.Titles))
	for i := range f.Titles {
		title := at(f.Titles, i)
		if title == "" {
			continue
		}
		items = append(items, content.Project{
			Title:       title,
			Description: at(f.Descriptions, i),
			URL:         at(f.URLs, i),
			Tags:        splitList(at(f.Tags, i)),
		})
	}
	p.Projects = content.Projects{Heading: strings.TrimSpace(f.Heading), Items: items}
}

type contactForm struct {
	Heading     string `form:"heading" binding:"required,max=80"`
	Email       string `form:"email" binding:"omitempty,email"`
	Location    string `form:"location" binding:"max=80"`
	Message     string `form:"message" binding:"max=1000"`
	FormEnabled bool   `form:"form_enabled"`
}

func (f *contactForm) apply(p *content.Portfolio) {
	p.Contact = content.Contact{
		Heading:     strings.TrimSpace(f.Heading),
		Email:       strings.TrimSpace(f.Email),
		Location:    strings.TrimSpace(f.Location),
		Message:     strings.TrimSpace(f.Message),
		FormEnabled: f.FormEnabled,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
