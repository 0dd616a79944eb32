package authoring

import (
	"fmt"
	"strings"
	"sync"
)

// TopicDraft is the single mutable aggregate behind the topic form. Dirty
// state is tracked with a per-field map instead of snapshot serialization, so
// a keystroke costs one map write.
type TopicDraft struct {
	ID string

	Basic    BasicSection
	Pricing  PricingSection
	Audience AudienceSection
	SEO      SEOSection

	Status   TopicStatus
	Featured bool

	Modules []*ModuleDraft

	mu     sync.Mutex
	dirty  map[string]struct{}
	saving bool
}

type BasicSection struct {
	Title              string
	Emoji              string
	CategoryID         string
	SubcategoryID      string
	Difficulty         Difficulty
	DurationHours      *float64
	Description        string
	LearningObjectives string
	Prerequisites      string
}

type PricingSection struct {
	IsFree bool
	Price  float64
}

type AudienceSection struct {
	TargetAudience []string
	Tags           []string
}

type SEOSection struct {
	ThumbnailURL    string
	MetaTitle       string
	MetaDescription string
}

// NewTopicDraft returns an empty draft for the create flow.
func NewTopicDraft() *TopicDraft {
	return &TopicDraft{
		Status: StatusDraft,
		Pricing: PricingSection{
			IsFree: true,
		},
		dirty: map[string]struct{}{},
	}
}

// DraftFromTopic builds a clean draft from a fetched topic (edit flow).
func DraftFromTopic(t *Topic) *TopicDraft {
	d := NewTopicDraft()
	d.replaceFromTopic(t)
	return d
}

func (d *TopicDraft) replaceFromTopic(t *Topic) {
	d.ID = t.ID
	d.Basic = BasicSection{
		Title:              t.Title,
		Emoji:              t.Emoji,
		CategoryID:         t.CategoryID,
		SubcategoryID:      t.SubcategoryID,
		Difficulty:         t.Difficulty,
		DurationHours:      t.DurationHours,
		Description:        t.Description,
		LearningObjectives: t.LearningObjectives,
		Prerequisites:      t.Prerequisites,
	}
	d.Pricing = PricingSection{IsFree: t.IsFree, Price: t.Price}
	d.Audience = AudienceSection{
		TargetAudience: append([]string(nil), t.TargetAudience...),
		Tags:           append([]string(nil), t.Tags...),
	}
	d.SEO = SEOSection{
		ThumbnailURL:    t.ThumbnailURL,
		MetaTitle:       t.MetaTitle,
		MetaDescription: t.MetaDescription,
	}
	d.Status = t.Status
	d.Featured = t.Featured

	d.Modules = d.Modules[:0]
	for _, m := range t.Modules {
		md := &ModuleDraft{
			ID:              m.ID,
			Title:           m.Title,
			Description:     m.Description,
			Order:           m.Order,
			DurationMinutes: m.DurationMinutes,
			draft:           d,
		}
		for _, v := range m.Videos {
			md.Videos = append(md.Videos, persistedVideo(v))
		}
		d.Modules = append(d.Modules, md)
	}
	d.dirty = map[string]struct{}{}
}

// SetField shallow-merges a value into the named section and marks the field
// dirty. Mutations are rejected while a save orchestration is running.
func (d *TopicDraft) SetField(section, field string, value interface{}) error {
	if err := d.guardMutation(); err != nil {
		return err
	}
	key := section + "." + field
	switch section {
	case "basic":
		if err := d.Basic.set(field, value); err != nil {
			return err
		}
	case "pricing":
		if err := d.Pricing.set(field, value); err != nil {
			return err
		}
	case "seo":
		if err := d.SEO.set(field, value); err != nil {
			return err
		}
	case "meta":
		switch field {
		case "status":
			if s, ok := value.(TopicStatus); ok {
				d.Status = s
			} else if s, ok := value.(string); ok {
				d.Status = TopicStatus(s)
			} else {
				return fmt.Errorf("field %s: want status", key)
			}
		case "featured":
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("field %s: want bool", key)
			}
			d.Featured = b
		default:
			return fmt.Errorf("unknown field %q", key)
		}
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	d.markDirty(key)
	return nil
}

func (s *BasicSection) set(field string, value interface{}) error {
	switch field {
	case "title":
		s.Title, _ = value.(string)
	case "emoji":
		s.Emoji, _ = value.(string)
	case "categoryId":
		s.CategoryID, _ = value.(string)
	case "subcategoryId":
		s.SubcategoryID, _ = value.(string)
	case "difficulty":
		if dv, ok := value.(Difficulty); ok {
			s.Difficulty = dv
		} else if sv, ok := value.(string); ok {
			s.Difficulty = Difficulty(sv)
		}
	case "durationHours":
		if f, ok := value.(float64); ok {
			s.DurationHours = &f
		} else if value == nil {
			s.DurationHours = nil
		}
	case "description":
		s.Description, _ = value.(string)
	case "learningObjectives":
		s.LearningObjectives, _ = value.(string)
	case "prerequisites":
		s.Prerequisites, _ = value.(string)
	default:
		return fmt.Errorf("unknown field basic.%s", field)
	}
	return nil
}

func (s *PricingSection) set(field string, value interface{}) error {
	switch field {
	case "isFree":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field pricing.isFree: want bool")
		}
		s.IsFree = b
		if b {
			s.Price = 0
		}
	case "price":
		switch n := value.(type) {
		case float64:
			s.Price = n
		case int:
			s.Price = float64(n)
		default:
			return fmt.Errorf("field pricing.price: want number")
		}
	default:
		return fmt.Errorf("unknown field pricing.%s", field)
	}
	return nil
}

func (s *SEOSection) set(field string, value interface{}) error {
	switch field {
	case "thumbnailUrl":
		s.ThumbnailURL, _ = value.(string)
	case "metaTitle":
		s.MetaTitle, _ = value.(string)
	case "metaDescription":
		s.MetaDescription, _ = value.(string)
	default:
		return fmt.Errorf("unknown field seo.%s", field)
	}
	return nil
}

// ToggleAudience adds or removes an audience entry; the vocabulary is fixed
// and entries are never duplicated.
func (d *TopicDraft) ToggleAudience(v string) error {
	if err := d.guardMutation(); err != nil {
		return err
	}
	if !ValidAudience(v) {
		return fmt.Errorf("unknown audience %q", v)
	}
	for i, cur := range d.Audience.TargetAudience {
		if cur == v {
			d.Audience.TargetAudience = append(d.Audience.TargetAudience[:i], d.Audience.TargetAudience[i+1:]...)
			d.markDirty("audience.targetAudience")
			return nil
		}
	}
	d.Audience.TargetAudience = append(d.Audience.TargetAudience, v)
	d.markDirty("audience.targetAudience")
	return nil
}

func (d *TopicDraft) AddTag(tag string) error {
	if err := d.guardMutation(); err != nil {
		return err
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	for _, t := range d.Audience.Tags {
		if t == tag {
			return nil
		}
	}
	d.Audience.Tags = append(d.Audience.Tags, tag)
	d.markDirty("audience.tags")
	return nil
}

func (d *TopicDraft) RemoveTag(tag string) error {
	if err := d.guardMutation(); err != nil {
		return err
	}
	for i, t := range d.Audience.Tags {
		if t == tag {
			d.Audience.Tags = append(d.Audience.Tags[:i], d.Audience.Tags[i+1:]...)
			d.markDirty("audience.tags")
			return nil
		}
	}
	return nil
}

// AddModule appends a new module with the next 1-based order.
func (d *TopicDraft) AddModule(title string) (*ModuleDraft, error) {
	if err := d.guardMutation(); err != nil {
		return nil, err
	}
	m := NewModuleDraft(title, len(d.Modules)+1)
	m.draft = d
	d.Modules = append(d.Modules, m)
	d.markDirty("modules")
	return m, nil
}

func (d *TopicDraft) markDirty(key string) {
	d.mu.Lock()
	if d.dirty == nil {
		d.dirty = map[string]struct{}{}
	}
	d.dirty[key] = struct{}{}
	d.mu.Unlock()
}

func (d *TopicDraft) IsDirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.dirty) > 0
}

func (d *TopicDraft) DirtyFields() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.dirty))
	for k := range d.dirty {
		out = append(out, k)
	}
	return out
}

func (d *TopicDraft) resetDirty() {
	d.mu.Lock()
	d.dirty = map[string]struct{}{}
	d.mu.Unlock()
}

func (d *TopicDraft) guardMutation() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.saving {
		return ErrSaveInProgress
	}
	return nil
}

func (d *TopicDraft) beginSave() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.saving {
		return ErrSaveInProgress
	}
	d.saving = true
	return nil
}

func (d *TopicDraft) endSave() {
	d.mu.Lock()
	d.saving = false
	d.mu.Unlock()
}

// Validate is the gate run before any save touches the network. It returns a
// per-field error map; an empty map means the draft may be persisted.
func (d *TopicDraft) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(d.Basic.Title) == "" {
		errs["title"] = "title is required"
	}
	if strings.TrimSpace(d.Basic.CategoryID) == "" {
		errs["categoryId"] = "category is required"
	}
	if d.Basic.Difficulty == "" {
		errs["difficulty"] = "difficulty is required"
	}
	if !d.Pricing.IsFree && d.Pricing.Price <= 0 {
		errs["price"] = "paid topics need a price greater than zero"
	}
	if d.Status == StatusPublished {
		if strings.TrimSpace(d.Basic.Description) == "" {
			errs["description"] = "a published topic needs a description"
		}
		if strings.TrimSpace(d.Basic.LearningObjectives) == "" {
			errs["learningObjectives"] = "a published topic needs learning objectives"
		}
		for i, m := range d.Modules {
			if strings.TrimSpace(m.Title) == "" {
				errs[fmt.Sprintf("modules[%d].title", i)] = "every module needs a title before publishing"
			}
		}
	}
	return errs
}

// payload builds the phase-1 JSON body: topic metadata plus, per module, only
// the videos that are already URL-based or uploaded.
func (d *TopicDraft) payload() *Topic {
	price := d.Pricing.Price
	if d.Pricing.IsFree {
		price = 0
	}
	t := &Topic{
		ID:                 d.ID,
		Title:              d.Basic.Title,
		Emoji:              d.Basic.Emoji,
		CategoryID:         d.Basic.CategoryID,
		SubcategoryID:      d.Basic.SubcategoryID,
		Difficulty:         d.Basic.Difficulty,
		DurationHours:      d.Basic.DurationHours,
		Description:        d.Basic.Description,
		LearningObjectives: d.Basic.LearningObjectives,
		Prerequisites:      d.Basic.Prerequisites,
		IsFree:             d.Pricing.IsFree,
		Price:              price,
		Tags:               append([]string(nil), d.Audience.Tags...),
		Status:             d.Status,
		TargetAudience:     append([]string(nil), d.Audience.TargetAudience...),
		ThumbnailURL:       d.SEO.ThumbnailURL,
		MetaTitle:          d.SEO.MetaTitle,
		MetaDescription:    d.SEO.MetaDescription,
		Featured:           d.Featured,
	}
	for _, m := range d.Modules {
		mod := Module{
			Title:       m.Title,
			Description: m.Description,
			Order:       m.Order,
			Videos:      m.payloadVideos(),
		}
		if !m.isSynthetic() {
			mod.ID = m.ID
		}
		t.Modules = append(t.Modules, mod)
	}
	return t
}
