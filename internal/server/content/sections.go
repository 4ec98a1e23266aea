package content

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SectionType discriminates the payload carried by a page section.
type SectionType string

const (
	SectionHero   SectionType = "hero"
	SectionStats  SectionType = "stats"
	SectionValues SectionType = "values"
	SectionText   SectionType = "text"
	SectionImage  SectionType = "image"
)

// Section is a tagged variant: exactly one payload field matching Type is
// set. Image references live in typed fields rather than free-form maps so
// the few mutations that touch them go through ImageRef/setImageRef.
type Section struct {
	Type   SectionType
	Hero   *HeroSection
	Stats  *StatsSection
	Values *ValuesSection
	Text   *TextSection
	Image  *ImageSection
}

type HeroSection struct {
	Heading    string     `json:"heading"`
	Subheading string     `json:"subheading,omitempty"`
	ImageRef   *uuid.UUID `json:"image_ref,omitempty"`
}

type StatItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type StatsSection struct {
	Items []StatItem `json:"items"`
}

type ValueItem struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type ValuesSection struct {
	Items []ValueItem `json:"items"`
}

type TextSection struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body"`
}

type ImageSection struct {
	Caption  string     `json:"caption,omitempty"`
	ImageRef *uuid.UUID `json:"image_ref,omitempty"`
}

// ImageRef returns the blob reference held by this section, or nil if the
// section type carries none.
func (s *Section) ImageRef() *uuid.UUID {
	switch s.Type {
	case SectionHero:
		if s.Hero != nil {
			return s.Hero.ImageRef
		}
	case SectionImage:
		if s.Image != nil {
			return s.Image.ImageRef
		}
	}
	return nil
}

// setImageRef swaps the section's blob reference and returns the previous
// one. Sections without an image slot reject the mutation.
func (s *Section) setImageRef(id uuid.UUID) (*uuid.UUID, error) {
	switch s.Type {
	case SectionHero:
		if s.Hero == nil {
			s.Hero = &HeroSection{}
		}
		old := s.Hero.ImageRef
		s.Hero.ImageRef = &id
		return old, nil
	case SectionImage:
		if s.Image == nil {
			s.Image = &ImageSection{}
		}
		old := s.Image.ImageRef
		s.Image.ImageRef = &id
		return old, nil
	default:
		return nil, invalid("section", fmt.Sprintf("%q sections have no image", s.Type))
	}
}

type sectionEnvelope struct {
	Type SectionType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	var payload any
	switch s.Type {
	case SectionHero:
		payload = s.Hero
	case SectionStats:
		payload = s.Stats
	case SectionValues:
		payload = s.Values
	case SectionText:
		payload = s.Text
	case SectionImage:
		payload = s.Image
	default:
		return nil, fmt.Errorf("marshal section: unknown type %q", s.Type)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionEnvelope{Type: s.Type, Data: data})
}

func (s *Section) UnmarshalJSON(b []byte) error {
	var env sectionEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	*s = Section{Type: env.Type}
	var target any
	switch env.Type {
	case SectionHero:
		s.Hero = &HeroSection{}
		target = s.Hero
	case SectionStats:
		s.Stats = &StatsSection{}
		target = s.Stats
	case SectionValues:
		s.Values = &ValuesSection{}
		target = s.Values
	case SectionText:
		s.Text = &TextSection{}
		target = s.Text
	case SectionImage:
		s.Image = &ImageSection{}
		target = s.Image
	default:
		return fmt.Errorf("unmarshal section: unknown type %q", env.Type)
	}

	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, target)
}
