package authoring

import "fmt"

// ModuleDraft is an ordered section under edit. Video orders are assigned at
// insertion time and only change when edited explicitly; removal does NOT
// renumber, gaps are tolerated and the backend sorts by the order field.
type ModuleDraft struct {
	ID              string
	Title           string
	Description     string
	Order           int
	DurationMinutes *int
	Videos          []*VideoDraft

	draft *TopicDraft // owning draft, nil for detached modules
}

// NewModuleDraft creates a client-side module with a synthetic id. It becomes
// durable only after a topic save returns a server id.
func NewModuleDraft(title string, order int) *ModuleDraft {
	return &ModuleDraft{
		ID:    newSyntheticID(),
		Title: title,
		Order: order,
	}
}

func (m *ModuleDraft) isSynthetic() bool { return isSyntheticID(m.ID) }

// guardMutation defers to the owning draft's save lock. The orchestrator
// ranges over Videos during phase 2, so video edits share the same guard as
// the topic-level mutators.
func (m *ModuleDraft) guardMutation() error {
	if m.draft != nil {
		return m.draft.guardMutation()
	}
	return nil
}

// AddVideo appends a video, assigning the next insertion order when the video
// carries none. Rejected while a save is in flight.
func (m *ModuleDraft) AddVideo(v *VideoDraft) error {
	if err := m.guardMutation(); err != nil {
		return err
	}
	m.appendVideo(v)
	return nil
}

func (m *ModuleDraft) appendVideo(v *VideoDraft) {
	if v.Order == 0 {
		v.Order = len(m.Videos) + 1
	}
	m.Videos = append(m.Videos, v)
}

// AddVideos appends a batch after checking the combined size of pending files
// against the bulk ceiling. Oversized batches are rejected with an error
// naming how many files offend, before anything is appended.
func (m *ModuleDraft) AddVideos(batch []*VideoDraft) error {
	if err := m.guardMutation(); err != nil {
		return err
	}
	var total int64
	oversized := 0
	for _, v := range batch {
		if v.Source.Kind != SourcePendingFile || v.Source.File == nil {
			continue
		}
		total += v.Source.File.Size
		if v.Source.File.Size > MaxSingleVideoSize {
			oversized++
		}
	}
	if oversized > 0 {
		return &Error{
			Kind: KindValidation, Op: "add videos",
			Message: fmt.Sprintf("%d file(s) exceed the %dMB per-file limit", oversized, MaxSingleVideoSize>>20),
		}
	}
	if total > MaxBatchVideoSize {
		return &Error{
			Kind: KindValidation, Op: "add videos",
			Message: fmt.Sprintf("batch of %d file(s) exceeds the %dMB total limit", len(batch), MaxBatchVideoSize>>20),
		}
	}
	for _, v := range batch {
		m.appendVideo(v)
	}
	return nil
}

// RemoveVideo drops the video at index. Remaining orders are left untouched.
func (m *ModuleDraft) RemoveVideo(index int) error {
	if err := m.guardMutation(); err != nil {
		return err
	}
	if index < 0 || index >= len(m.Videos) {
		return fmt.Errorf("video index %d out of range", index)
	}
	m.Videos = append(m.Videos[:index], m.Videos[index+1:]...)
	return nil
}

// UpdateVideo mutates one field of the video at index. Pure state transition,
// no network calls.
func (m *ModuleDraft) UpdateVideo(index int, field string, value interface{}) error {
	if err := m.guardMutation(); err != nil {
		return err
	}
	if index < 0 || index >= len(m.Videos) {
		return fmt.Errorf("video index %d out of range", index)
	}
	v := m.Videos[index]
	switch field {
	case "title":
		v.Title, _ = value.(string)
	case "description":
		v.Description, _ = value.(string)
	case "duration":
		v.Duration, _ = value.(string)
	case "order":
		if n, ok := value.(int); ok {
			v.Order = n
		}
	case "isPreview":
		v.IsPreview, _ = value.(bool)
	case "transcript":
		v.Transcript, _ = value.(string)
	default:
		return fmt.Errorf("unknown video field %q", field)
	}
	return nil
}

// pendingFiles returns the videos that still need a multipart upload.
func (m *ModuleDraft) pendingFiles() []*VideoDraft {
	var out []*VideoDraft
	for _, v := range m.Videos {
		if v.Source.Kind == SourcePendingFile {
			out = append(out, v)
		}
	}
	return out
}

// unregisteredURLVideos returns URL-based videos that phase 1 did not hand a
// server id back for.
func (m *ModuleDraft) unregisteredURLVideos() []*VideoDraft {
	var out []*VideoDraft
	for _, v := range m.Videos {
		if v.Source.Kind == SourceExternalURL && isSyntheticID(v.ID) {
			out = append(out, v)
		}
	}
	return out
}

// payloadVideos is the phase-1 view of the module: only videos that are safe
// to serialize into a JSON body.
func (m *ModuleDraft) payloadVideos() []Video {
	var out []Video
	for _, v := range m.Videos {
		if !v.persistable() {
			continue
		}
		vv := v.Video
		if isSyntheticID(vv.ID) {
			vv.ID = ""
		}
		out = append(out, vv)
	}
	return out
}
