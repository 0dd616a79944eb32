package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- test doubles ----------

type notice struct {
	level   Level
	scope   string
	message string
}

type collectNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *collectNotifier) Notify(level Level, scope, message string) {
	n.mu.Lock()
	n.notices = append(n.notices, notice{level, scope, message})
	n.mu.Unlock()
}

func (n *collectNotifier) count(level Level) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.notices {
		if e.level == level {
			c++
		}
	}
	return c
}

// fakeBackend implements the topic endpoints with the shared envelope.
type fakeBackend struct {
	mu            sync.Mutex
	createCalls   int
	updateCalls   int
	batchCalls    int
	registerCalls int
	fetchCalls    int

	lastCreateBody *Topic
	lastBatchFiles []string
	batchShape     string // "array" (default), "videos", "uploaded", "single", "short", "fail"
	dropModules    int    // omit this many trailing modules from the create response
	blockCreate    chan struct{}

	topic *Topic // server truth, served by GET
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "topics":
			b.handleCreate(w, r)
		case r.Method == http.MethodPut && len(parts) == 2 && parts[0] == "topics":
			b.handleUpdate(w, r)
		case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "topics":
			b.handleFetch(w)
		case r.Method == http.MethodPost && len(parts) == 6 && parts[5] == "batch":
			b.handleBatch(w, r, parts[3])
		case r.Method == http.MethodPost && len(parts) == 5 && parts[4] == "videos":
			b.handleRegister(w, r, parts[3])
		default:
			writeEnvelope(w, http.StatusNotFound, false, nil, "not found")
		}
	})
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data interface{}, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]interface{}{"success": success}
	if data != nil {
		body["data"] = data
	}
	if errMsg != "" {
		body["error"] = errMsg
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (b *fakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	if b.blockCreate != nil {
		<-b.blockCreate
	}
	var t Topic
	_ = json.NewDecoder(r.Body).Decode(&t)

	b.mu.Lock()
	b.createCalls++
	b.lastCreateBody = &t

	t.ID = "topic-1"
	for i := range t.Modules {
		t.Modules[i].ID = fmt.Sprintf("srv-mod-%d", i+1)
		for j := range t.Modules[i].Videos {
			t.Modules[i].Videos[j].ID = fmt.Sprintf("srv-vid-%d-%d", i+1, j+1)
		}
	}
	// stored must not share module/video backing arrays with lastCreateBody:
	// handleBatch appends into b.topic's modules after the fact.
	stored := t
	stored.Modules = append([]Module(nil), t.Modules...)
	for i := range stored.Modules {
		stored.Modules[i].Videos = append([]Video(nil), stored.Modules[i].Videos...)
	}
	b.topic = &stored

	resp := t
	if b.dropModules > 0 && len(resp.Modules) >= b.dropModules {
		resp.Modules = resp.Modules[:len(resp.Modules)-b.dropModules]
	}
	b.mu.Unlock()

	writeEnvelope(w, http.StatusCreated, true, resp, "")
}

func (b *fakeBackend) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var t Topic
	_ = json.NewDecoder(r.Body).Decode(&t)

	b.mu.Lock()
	b.updateCalls++
	if b.topic != nil {
		t.ID = b.topic.ID
	}
	for i := range t.Modules {
		if t.Modules[i].ID == "" {
			t.Modules[i].ID = fmt.Sprintf("srv-mod-%d", i+1)
		}
	}
	stored := t
	b.topic = &stored
	b.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, t, "")
}

func (b *fakeBackend) handleFetch(w http.ResponseWriter) {
	b.mu.Lock()
	b.fetchCalls++
	t := b.topic
	b.mu.Unlock()
	if t == nil {
		writeEnvelope(w, http.StatusNotFound, false, nil, "topic not found")
		return
	}
	writeEnvelope(w, http.StatusOK, true, t, "")
}

func (b *fakeBackend) handleBatch(w http.ResponseWriter, r *http.Request, moduleID string) {
	_ = r.ParseMultipartForm(64 << 20)

	b.mu.Lock()
	b.batchCalls++
	b.lastBatchFiles = nil
	var files []string
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["videos"] {
			files = append(files, fh.Filename)
		}
	}
	b.lastBatchFiles = files
	shape := b.batchShape
	b.mu.Unlock()

	uploaded := make([]UploadedVideo, 0, len(files))
	for i := range files {
		uploaded = append(uploaded, UploadedVideo{
			ID:              fmt.Sprintf("up-%s-%d", moduleID, i+1),
			VideoURL:        fmt.Sprintf("https://cdn.example.com/%s/%d.mp4", moduleID, i+1),
			DurationSeconds: 120,
		})
	}

	b.mu.Lock()
	if b.topic != nil {
		for i := range b.topic.Modules {
			if b.topic.Modules[i].ID == moduleID {
				for j, up := range uploaded {
					b.topic.Modules[i].Videos = append(b.topic.Modules[i].Videos, Video{
						ID:       up.ID,
						Title:    r.FormValue("titles[]"),
						Order:    j + 1,
						VideoURL: up.VideoURL,
					})
				}
			}
		}
	}
	b.mu.Unlock()

	switch shape {
	case "fail":
		writeEnvelope(w, http.StatusInternalServerError, false, nil, "storage rejected the upload")
	case "videos":
		writeEnvelope(w, http.StatusOK, true, map[string]interface{}{"videos": uploaded}, "")
	case "uploaded":
		writeEnvelope(w, http.StatusOK, true, map[string]interface{}{"uploaded": uploaded}, "")
	case "single":
		writeEnvelope(w, http.StatusOK, true, uploaded[0], "")
	case "short":
		writeEnvelope(w, http.StatusOK, true, uploaded[:1], "")
	default:
		writeEnvelope(w, http.StatusOK, true, uploaded, "")
	}
}

func (b *fakeBackend) handleRegister(w http.ResponseWriter, r *http.Request, moduleID string) {
	var v Video
	_ = json.NewDecoder(r.Body).Decode(&v)

	b.mu.Lock()
	b.registerCalls++
	v.ID = fmt.Sprintf("reg-%s-%d", moduleID, b.registerCalls)
	if b.topic != nil {
		for i := range b.topic.Modules {
			if b.topic.Modules[i].ID == moduleID {
				b.topic.Modules[i].Videos = append(b.topic.Modules[i].Videos, v)
			}
		}
	}
	b.mu.Unlock()

	writeEnvelope(w, http.StatusCreated, true, v, "")
}

// timeoutErr satisfies net.Error so the classifier marks it KindTimeout.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// flakyTransport fails requests matching failPath until failures runs out.
type flakyTransport struct {
	inner    http.RoundTripper
	failPath string

	mu       sync.Mutex
	failures int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.Contains(req.URL.Path, f.failPath) {
		f.mu.Lock()
		if f.failures > 0 {
			f.failures--
			f.mu.Unlock()
			return nil, timeoutErr{}
		}
		f.mu.Unlock()
	}
	return f.inner.RoundTrip(req)
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, Backoff: FixedBackoff(time.Millisecond), Retryable: TransientOnly}
}

func draftWithModule(t *testing.T, moduleTitle string) *TopicDraft {
	t.Helper()
	d := NewTopicDraft()
	require.NoError(t, d.SetField("basic", "title", "Intro"))
	require.NoError(t, d.SetField("basic", "categoryId", "1"))
	require.NoError(t, d.SetField("basic", "difficulty", DifficultyBeginner))
	_, err := d.AddModule(moduleTitle)
	require.NoError(t, err)
	return d
}

// ---------- tests ----------

func TestSaveURLVideoOnly(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	d := draftWithModule(t, "Mod A")
	v, err := NewURLVideo("Vid A", "https://youtu.be/abc123")
	require.NoError(t, err)
	d.Modules[0].AddVideo(v)

	n := &collectNotifier{}
	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(n))
	res, err := o.Save(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.createCalls)
	assert.Zero(t, backend.batchCalls)
	assert.True(t, res.Created)
	assert.Empty(t, res.ModuleFailures)

	// phase-1 body carried exactly one module with exactly one URL video
	require.NotNil(t, backend.lastCreateBody)
	require.Len(t, backend.lastCreateBody.Modules, 1)
	require.Len(t, backend.lastCreateBody.Modules[0].Videos, 1)
	assert.Equal(t, "https://youtu.be/abc123", backend.lastCreateBody.Modules[0].Videos[0].VideoURL)

	// draft reconciled against the server copy
	assert.Equal(t, "topic-1", d.ID)
	assert.Equal(t, "srv-mod-1", d.Modules[0].ID)
	assert.False(t, d.IsDirty())
	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, 1, n.count(LevelInfo))
}

func TestSaveFileVideoTwoPhase(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	d := draftWithModule(t, "Mod A")
	v, err := NewFileVideo("Vid A", videoFile("vid-a.mp4", 1<<20))
	require.NoError(t, err)
	d.Modules[0].AddVideo(v)

	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(&collectNotifier{}))
	res, err := o.Save(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, res.ModuleFailures)

	// the pending file was stripped from the JSON body and sent as multipart
	require.Len(t, backend.lastCreateBody.Modules, 1)
	assert.Empty(t, backend.lastCreateBody.Modules[0].Videos)
	assert.Equal(t, 1, backend.batchCalls)
	assert.Equal(t, []string{"vid-a.mp4"}, backend.lastBatchFiles)

	// reconciliation merged the uploaded URL back in
	require.Len(t, d.Modules, 1)
	require.Len(t, d.Modules[0].Videos, 1)
	assert.Contains(t, d.Modules[0].Videos[0].VideoURL, "cdn.example.com")
	assert.Equal(t, SourcePersisted, d.Modules[0].Videos[0].Source.Kind)
}

func TestSaveValidationNeverReachesNetwork(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	d := NewTopicDraft()
	require.NoError(t, d.SetField("basic", "title", "t"))
	require.NoError(t, d.SetField("basic", "categoryId", "1"))
	require.NoError(t, d.SetField("basic", "difficulty", "beginner"))
	require.NoError(t, d.SetField("meta", "status", StatusPublished)) // published w/o description

	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(&collectNotifier{}))
	_, err := o.Save(context.Background(), d)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "description")
	assert.Zero(t, backend.createCalls)
	assert.Equal(t, StateIdle, o.State())
}

func TestPhase1FailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, false, nil, "database unavailable")
	}))
	defer srv.Close()

	d := draftWithModule(t, "Mod A")
	v, err := NewFileVideo("Vid A", videoFile("vid-a.mp4", 1<<20))
	require.NoError(t, err)
	d.Modules[0].AddVideo(v)

	n := &collectNotifier{}
	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(n))
	_, err = o.Save(context.Background(), d)

	require.Error(t, err)
	assert.Equal(t, KindBackend, KindOf(err))
	assert.Contains(t, err.Error(), "database unavailable")
	assert.Equal(t, StateFailed, o.State())
	assert.Zero(t, n.count(LevelInfo)) // no success notice

	// StateFailed is a resting state: the draft stays editable
	require.NoError(t, d.SetField("basic", "title", "Intro, retried"))
	require.NoError(t, d.Modules[0].UpdateVideo(0, "title", "Vid A v2"))

	// a failed orchestration does not wedge the next save
	_, err = o.Save(context.Background(), d)
	require.Error(t, err)
}

func TestSyntheticModuleSkippedWithWarning(t *testing.T) {
	backend := &fakeBackend{dropModules: 1}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	d := draftWithModule(t, "Mod A")
	_, err := d.AddModule("Mod B")
	require.NoError(t, err)
	for _, m := range d.Modules {
		v, ferr := NewFileVideo("clip", videoFile(m.Title+".mp4", 1<<20))
		require.NoError(t, ferr)
		m.AddVideo(v)
	}

	n := &collectNotifier{}
	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(n))
	res, err := o.Save(context.Background(), d)
	require.NoError(t, err)

	// Mod B never got a server id: its upload is skipped, not failed
	assert.Equal(t, 1, backend.batchCalls)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Mod B")
	assert.Empty(t, res.ModuleFailures)
}

func TestBatchRetryOnTimeout(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	flaky := &flakyTransport{inner: http.DefaultTransport, failPath: "/videos/batch", failures: 2}
	client := NewClient(srv.URL, WithHTTPClient(&http.Client{Transport: flaky}))

	d := draftWithModule(t, "Mod A")
	v, err := NewFileVideo("clip", videoFile("clip.mp4", 1<<20))
	require.NoError(t, err)
	d.Modules[0].AddVideo(v)

	n := &collectNotifier{}
	o := NewOrchestrator(client, WithNotifier(n), WithRetryPolicy(fastPolicy(3)))
	res, err := o.Save(context.Background(), d)
	require.NoError(t, err)

	assert.Empty(t, res.ModuleFailures)
	assert.Equal(t, 1, backend.batchCalls)   // server saw only the final attempt
	assert.Equal(t, 2, n.count(LevelWarn))   // a "retrying" notice per pause
}

func TestBatchFailureIsIsolatedPerModule(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	// fail every batch attempt against the first module only
	flaky := &flakyTransport{inner: http.DefaultTransport, failPath: "/modules/srv-mod-1/videos/batch", failures: 99}
	client := NewClient(srv.URL, WithHTTPClient(&http.Client{Transport: flaky}))

	d := draftWithModule(t, "Mod A")
	_, err := d.AddModule("Mod B")
	require.NoError(t, err)
	for _, m := range d.Modules {
		v, ferr := NewFileVideo("clip", videoFile(m.Title+".mp4", 1<<20))
		require.NoError(t, ferr)
		m.AddVideo(v)
	}

	n := &collectNotifier{}
	o := NewOrchestrator(client, WithNotifier(n), WithRetryPolicy(fastPolicy(2)))
	res, err := o.Save(context.Background(), d)
	require.NoError(t, err) // phase 1 succeeded, so the save reports success

	require.Contains(t, res.ModuleFailures, "Mod A")
	assert.Equal(t, KindTimeout, KindOf(res.ModuleFailures["Mod A"]))
	assert.NotContains(t, res.ModuleFailures, "Mod B")
	assert.Equal(t, 1, backend.batchCalls) // Mod B's upload still went through
	assert.Equal(t, 1, n.count(LevelInfo))
	assert.GreaterOrEqual(t, n.count(LevelError), 1)
}

func TestNonTransientBatchFailureNotRetried(t *testing.T) {
	backend := &fakeBackend{batchShape: "fail"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	d := draftWithModule(t, "Mod A")
	v, err := NewFileVideo("clip", videoFile("clip.mp4", 1<<20))
	require.NoError(t, err)
	d.Modules[0].AddVideo(v)

	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(&collectNotifier{}), WithRetryPolicy(fastPolicy(3)))
	res, err := o.Save(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.batchCalls) // no retries on a backend rejection
	require.Contains(t, res.ModuleFailures, "Mod A")
	assert.Equal(t, KindBackend, KindOf(res.ModuleFailures["Mod A"]))
}

func TestShortBatchResponseKeepsTailPending(t *testing.T) {
	backend := &fakeBackend{batchShape: "short"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := NewModuleDraft("Mod A", 1)
	m.ID = "srv-mod-1"
	for _, name := range []string{"one.mp4", "two.mp4"} {
		v, err := NewFileVideo(name, videoFile(name, 1<<20))
		require.NoError(t, err)
		m.AddVideo(v)
	}

	backend.topic = &Topic{ID: "topic-1", Modules: []Module{{ID: "srv-mod-1", Title: "Mod A", Order: 1}}}
	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(&collectNotifier{}))
	res := &SaveResult{ModuleFailures: map[string]error{}}
	o.materializeModule(context.Background(), "topic-1", m, res)

	assert.Empty(t, res.ModuleFailures)
	assert.Equal(t, SourcePersisted, m.Videos[0].Source.Kind)
	assert.Equal(t, SourcePendingFile, m.Videos[1].Source.Kind) // missing entry stays un-uploaded
}

func TestURLVideoRegisteredWhenPhase1SkipsIt(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := NewModuleDraft("Mod A", 1)
	m.ID = "srv-mod-1"
	v, err := NewURLVideo("late add", "https://vimeo.com/99")
	require.NoError(t, err)
	m.AddVideo(v)

	backend.topic = &Topic{ID: "topic-1", Modules: []Module{{ID: "srv-mod-1", Title: "Mod A", Order: 1}}}
	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(&collectNotifier{}))
	res := &SaveResult{ModuleFailures: map[string]error{}}
	o.materializeModule(context.Background(), "topic-1", m, res)

	assert.Equal(t, 1, backend.registerCalls)
	assert.False(t, isSyntheticID(m.Videos[0].ID))
	assert.Equal(t, SourcePersisted, m.Videos[0].Source.Kind)
}

func TestConcurrentSaveRejected(t *testing.T) {
	backend := &fakeBackend{blockCreate: make(chan struct{})}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	d := draftWithModule(t, "Mod A")
	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(&collectNotifier{}))

	done := make(chan error, 1)
	go func() {
		_, err := o.Save(context.Background(), d)
		done <- err
	}()

	// wait until the orchestration is inside phase 1
	require.Eventually(t, func() bool { return o.State() == StateSavingTopic }, time.Second, time.Millisecond)

	_, err := o.Save(context.Background(), d)
	assert.ErrorIs(t, err, ErrSaveInProgress)
	assert.ErrorIs(t, d.SetField("basic", "title", "changed"), ErrSaveInProgress)
	assert.ErrorIs(t, d.AddTag("x"), ErrSaveInProgress)

	// module-level mutators share the same lock: phase 2 ranges over Videos
	m := d.Modules[0]
	v, err := NewURLVideo("Late add", "https://youtube.com/watch?v=zzz")
	require.NoError(t, err)
	assert.ErrorIs(t, m.AddVideo(v), ErrSaveInProgress)
	assert.ErrorIs(t, m.AddVideos([]*VideoDraft{v}), ErrSaveInProgress)
	assert.ErrorIs(t, m.RemoveVideo(0), ErrSaveInProgress)
	assert.ErrorIs(t, m.UpdateVideo(0, "title", "nope"), ErrSaveInProgress)

	close(backend.blockCreate)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, o.State())
}

func TestMatchModulesPositional(t *testing.T) {
	local := []*ModuleDraft{NewModuleDraft("A", 1), NewModuleDraft("B", 2)}
	remote := []Module{
		{ID: "m1", Title: "renamed upstream", Order: 1},
		{ID: "m2", Title: "also renamed", Order: 2},
	}

	matchModules(local, remote, MatchPositional)
	assert.Equal(t, "m1", local[0].ID)
	assert.Equal(t, "m2", local[1].ID)
}

func TestMatchModulesTitleFallback(t *testing.T) {
	// orders shifted upstream: exact (title, order) fails, title-only must win
	local := []*ModuleDraft{NewModuleDraft("A", 1), NewModuleDraft("B", 2)}
	remote := []Module{
		{ID: "mb", Title: "B", Order: 1},
		{ID: "ma", Title: "A", Order: 2},
	}

	matchModules(local, remote, MatchHeuristic)
	assert.Equal(t, "ma", local[0].ID)
	assert.Equal(t, "mb", local[1].ID)
}

func TestMatchModulesOrderFallback(t *testing.T) {
	local := []*ModuleDraft{NewModuleDraft("A", 1), NewModuleDraft("B", 2)}
	remote := []Module{
		{ID: "m2", Title: "x", Order: 2},
		{ID: "m1", Title: "y", Order: 1},
	}

	matchModules(local, remote, MatchHeuristic)
	assert.Equal(t, "m1", local[0].ID)
	assert.Equal(t, "m2", local[1].ID)
}

func TestMatchModulesPositionalRequiresEqualCounts(t *testing.T) {
	local := []*ModuleDraft{NewModuleDraft("A", 1), NewModuleDraft("B", 2)}
	remote := []Module{{ID: "ma", Title: "A", Order: 1}}

	matchModules(local, remote, MatchPositional)
	assert.Equal(t, "ma", local[0].ID)
	assert.True(t, local[1].isSynthetic())
}

func TestRefetchIsIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	d := draftWithModule(t, "M1")
	o := NewOrchestrator(NewClient(srv.URL), WithNotifier(&collectNotifier{}))
	_, err := o.Save(context.Background(), d)
	require.NoError(t, err)

	c := NewClient(srv.URL)
	first, err := c.GetTopic(context.Background(), d.ID)
	require.NoError(t, err)
	second, err := c.GetTopic(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// titles and orders survive the round trip even though ids are server-assigned
	require.Len(t, first.Modules, 1)
	assert.Equal(t, "M1", first.Modules[0].Title)
	assert.Equal(t, 1, first.Modules[0].Order)
}
