package authoring

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SaveState is the orchestrator's current phase.
type SaveState int

const (
	StateIdle SaveState = iota
	StateValidating
	StateSavingTopic
	StateUploadingVideos
	StateReconciling
	StateFailed
)

func (s SaveState) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateSavingTopic:
		return "saving-topic"
	case StateUploadingVideos:
		return "uploading-videos"
	case StateReconciling:
		return "reconciling"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// MatchStrategy selects how server-returned modules are mapped back to local
// drafts after a create.
type MatchStrategy int

const (
	// MatchPositional trusts array position when the counts match; the
	// backend is required to return modules in request order. Falls back to
	// the heuristic chain when counts differ.
	MatchPositional MatchStrategy = iota
	// MatchHeuristic always runs the chain: (title, order), then title,
	// then order, then position (counts equal only).
	MatchHeuristic
)

// Orchestrator drives the two-phase save: topic metadata first, then video
// materialization, then reconciliation against a fresh server copy.
type Orchestrator struct {
	client   *Client
	notifier Notifier
	policy   RetryPolicy
	matching MatchStrategy

	mu    sync.Mutex
	state SaveState
}

type OrchestratorOption func(*Orchestrator)

func WithNotifier(n Notifier) OrchestratorOption {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithRetryPolicy(p RetryPolicy) OrchestratorOption {
	return func(o *Orchestrator) { o.policy = p }
}

func WithMatchStrategy(s MatchStrategy) OrchestratorOption {
	return func(o *Orchestrator) { o.matching = s }
}

func NewOrchestrator(client *Client, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		notifier: logNotifier{},
		policy:   DefaultRetryPolicy(),
		matching: MatchPositional,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current phase. Mutating draft actions should be disabled
// by the caller while a save is in flight (any state between StateValidating
// and StateReconciling). StateFailed is a resting state like StateIdle: the
// draft lock is released, edits and a retry Save are both allowed.
func (o *Orchestrator) State() SaveState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s SaveState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// SaveResult reports the outcome of one save operation. ModuleFailures and
// Warnings carry per-module partial failures; they do not void the overall
// success once phase 1 has been persisted.
type SaveResult struct {
	Topic          *Topic
	Created        bool
	ModuleFailures map[string]error
	Warnings       []string
}

// Save runs the whole protocol. Validation failures never reach the network;
// a phase-1 failure aborts everything; phase-2 failures are isolated per
// module. A second call while one is running returns ErrSaveInProgress.
func (o *Orchestrator) Save(ctx context.Context, d *TopicDraft) (*SaveResult, error) {
	o.mu.Lock()
	if o.state != StateIdle && o.state != StateFailed {
		o.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	o.state = StateValidating
	o.mu.Unlock()

	if err := d.beginSave(); err != nil {
		o.setState(StateIdle)
		return nil, err
	}
	defer d.endSave()
	defer func() {
		if o.State() != StateFailed {
			o.setState(StateIdle)
		}
	}()

	if errs := d.Validate(); len(errs) > 0 {
		o.setState(StateIdle)
		return nil, &ValidationError{Fields: errs}
	}

	// Phase 1: persist topic metadata. File-pending videos are stripped from
	// the payload here; raw file references never travel in a JSON body.
	o.setState(StateSavingTopic)
	payload := d.payload()
	creating := d.ID == ""

	var saved *Topic
	var err error
	if creating {
		saved, err = o.client.CreateTopic(ctx, payload)
	} else {
		saved, err = o.client.UpdateTopic(ctx, d.ID, payload)
	}
	if err != nil {
		o.setState(StateFailed)
		o.notifier.Notify(LevelError, "topic", err.Error())
		return nil, err
	}
	if creating {
		d.ID = saved.ID
	}
	o.adoptServerModules(d, saved.Modules)

	result := &SaveResult{
		Created:        creating,
		ModuleFailures: map[string]error{},
	}

	// Phase 2: materialize videos against now-durable module ids.
	o.setState(StateUploadingVideos)
	for _, m := range d.Modules {
		o.materializeModule(ctx, d.ID, m, result)
	}

	// Phase 3: replace local state with the server's view, so the form shows
	// exactly what was persisted.
	o.setState(StateReconciling)
	if fresh, ferr := o.client.GetTopic(ctx, d.ID); ferr == nil {
		d.replaceFromTopic(fresh)
		result.Topic = fresh
	} else {
		o.notifier.Notify(LevelWarn, "topic", "saved, but refreshing from the server failed: "+ferr.Error())
		d.resetDirty()
	}

	verb := "updated"
	if creating {
		verb = "created"
	}
	o.notifier.Notify(LevelInfo, "topic", fmt.Sprintf("topic %s successfully", verb))
	return result, nil
}

// materializeModule uploads pending files in one batch call and registers
// leftover URL videos. Failures are recorded and reported but never abort the
// remaining modules.
func (o *Orchestrator) materializeModule(ctx context.Context, topicID string, m *ModuleDraft, result *SaveResult) {
	pending := m.pendingFiles()
	if len(pending) > 0 {
		if m.isSynthetic() {
			// Can't upload against a module the server doesn't know yet.
			w := fmt.Sprintf("module %q was not assigned a server id; %d video(s) were not uploaded", m.Title, len(pending))
			result.Warnings = append(result.Warnings, w)
			o.notifier.Notify(LevelWarn, "module "+m.Title, w)
		} else {
			items := make([]BatchItem, 0, len(pending))
			for _, v := range pending {
				items = append(items, BatchItem{
					File:        *v.Source.File,
					Title:       v.Title,
					Description: v.Description,
					Duration:    v.Duration,
					Order:       v.Order,
				})
			}
			var uploaded []UploadedVideo
			err := o.policy.Do(ctx, func() error {
				var uerr error
				uploaded, uerr = o.client.UploadVideoBatch(ctx, topicID, m.ID, items)
				return uerr
			}, func(attempt int, delay time.Duration) {
				o.notifier.Notify(LevelWarn, "module "+m.Title,
					fmt.Sprintf("upload failed, retrying in %s (attempt %d)", delay, attempt))
			})
			if err != nil {
				result.ModuleFailures[m.Title] = err
				o.notifier.Notify(LevelError, "module "+m.Title, "video upload failed: "+err.Error())
			} else {
				// Results map back positionally to the request order. A short
				// response leaves the tail un-uploaded rather than erroring.
				for i, up := range uploaded {
					if i >= len(pending) {
						break
					}
					pending[i].markPersisted(up)
				}
			}
		}
	}

	if m.isSynthetic() {
		return
	}
	for _, v := range m.unregisteredURLVideos() {
		created, err := o.client.RegisterVideo(ctx, topicID, m.ID, Video{
			Title:       v.Title,
			Description: v.Description,
			Duration:    v.Duration,
			VideoURL:    v.VideoURL,
			Order:       v.Order,
			VideoType:   v.VideoType,
			IsPreview:   v.IsPreview,
			Transcript:  v.Transcript,
		})
		if err != nil {
			result.ModuleFailures[m.Title] = err
			o.notifier.Notify(LevelError, "module "+m.Title,
				fmt.Sprintf("registering %q failed: %s", v.Title, err.Error()))
			continue
		}
		if created.ID != "" {
			v.ID = created.ID
		}
		v.Source = VideoSource{Kind: SourcePersisted, URL: v.VideoURL}
	}
}

// adoptServerModules merges server-assigned module ids (and the ids of videos
// embedded in the phase-1 payload) back into the local drafts.
func (o *Orchestrator) adoptServerModules(d *TopicDraft, remote []Module) {
	unmatched := make([]*ModuleDraft, 0, len(d.Modules))
	for _, m := range d.Modules {
		if m.isSynthetic() {
			unmatched = append(unmatched, m)
		} else {
			// Already durable: refresh embedded video ids.
			for _, rm := range remote {
				if rm.ID == m.ID {
					adoptServerVideos(m, rm)
					break
				}
			}
		}
	}
	if len(unmatched) == 0 {
		return
	}

	claimedRemote := map[string]*ModuleDraft{}
	for _, m := range d.Modules {
		if !m.isSynthetic() {
			claimedRemote[m.ID] = m
		}
	}
	free := make([]Module, 0, len(remote))
	for _, rm := range remote {
		if _, taken := claimedRemote[rm.ID]; !taken {
			free = append(free, rm)
		}
	}

	matchModules(unmatched, free, o.matching)
}

// matchModules assigns remote module ids to local drafts. With
// MatchPositional and equal counts, position wins (the backend contract is to
// return modules in request order). Otherwise the heuristic chain runs:
// (title, order) exact, then title only, then order only, then position when
// counts happen to match.
func matchModules(local []*ModuleDraft, remote []Module, strategy MatchStrategy) {
	if len(local) == 0 || len(remote) == 0 {
		return
	}
	if strategy == MatchPositional && len(local) == len(remote) {
		for i, m := range local {
			m.ID = remote[i].ID
			adoptServerVideos(m, remote[i])
		}
		return
	}

	claimed := make([]bool, len(remote))
	pending := make(map[*ModuleDraft]bool, len(local))
	for _, m := range local {
		pending[m] = true
	}

	pass := func(match func(m *ModuleDraft, rm Module) bool) {
		for _, m := range local {
			if !pending[m] {
				continue
			}
			for i, rm := range remote {
				if claimed[i] || !match(m, rm) {
					continue
				}
				m.ID = rm.ID
				adoptServerVideos(m, rm)
				claimed[i] = true
				pending[m] = false
				break
			}
		}
	}

	pass(func(m *ModuleDraft, rm Module) bool { return m.Title == rm.Title && m.Order == rm.Order })
	pass(func(m *ModuleDraft, rm Module) bool { return m.Title == rm.Title })
	pass(func(m *ModuleDraft, rm Module) bool { return m.Order == rm.Order })

	if len(local) == len(remote) {
		for i, m := range local {
			if pending[m] && !claimed[i] {
				m.ID = remote[i].ID
				adoptServerVideos(m, remote[i])
				claimed[i] = true
				pending[m] = false
			}
		}
	}
}

// adoptServerVideos copies server ids onto URL videos that were embedded in
// the phase-1 body, matched by URL then by order.
func adoptServerVideos(m *ModuleDraft, rm Module) {
	for _, v := range m.Videos {
		if v.Source.Kind != SourceExternalURL || !isSyntheticID(v.ID) {
			continue
		}
		for _, rv := range rm.Videos {
			if rv.VideoURL == v.VideoURL || (rv.VideoURL == "" && rv.Order == v.Order) {
				if rv.ID != "" {
					v.ID = rv.ID
					v.Source = VideoSource{Kind: SourcePersisted, URL: v.VideoURL}
				}
				break
			}
		}
	}
}
