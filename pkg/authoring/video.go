package authoring

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Size ceilings for file-backed videos, checked before any network call.
const (
	MaxSingleVideoSize int64 = 100 << 20 // ad-hoc single upload
	MaxBatchVideoSize  int64 = 500 << 20 // total for one module batch
)

const localPreviewScheme = "blob:"

// SourceKind discriminates the three video source states explicitly, decided
// once at registration time instead of being inferred from populated fields.
type SourceKind int

const (
	SourcePendingFile SourceKind = iota
	SourceExternalURL
	SourcePersisted
)

func (k SourceKind) String() string {
	switch k {
	case SourcePendingFile:
		return "pending-file"
	case SourceExternalURL:
		return "external-url"
	default:
		return "persisted"
	}
}

// FileRef is an in-memory handle to a selected file. Open is deferred so a
// draft can hold many registered files without keeping them all open.
type FileRef struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// VideoSource is the tagged variant: exactly one of File/URL is meaningful
// depending on Kind.
type VideoSource struct {
	Kind SourceKind
	File *FileRef // SourcePendingFile
	URL  string   // SourceExternalURL / SourcePersisted
}

// VideoDraft is a video under edit. PreviewURL holds the transient local
// preview reference for pending files; it is never serialized.
type VideoDraft struct {
	Video
	Source     VideoSource
	PreviewURL string
}

// synthetic ids follow the "new-<timestamp>" pattern until the server
// assigns a durable one.
var syntheticClock = func() int64 { return time.Now().UnixNano() }

func newSyntheticID() string {
	return fmt.Sprintf("new-%d", syntheticClock())
}

func isSyntheticID(id string) bool {
	return id == "" || strings.HasPrefix(id, "new-")
}

// NewFileVideo registers a selected file as a pending-file video. The MIME
// type and size are checked here so oversized or non-video files never reach
// the network.
func NewFileVideo(title string, ref FileRef) (*VideoDraft, error) {
	if ref.Open == nil {
		return nil, &Error{Kind: KindValidation, Op: "register video", Message: "file handle missing"}
	}
	if !strings.HasPrefix(ref.ContentType, "video/") {
		return nil, &Error{
			Kind: KindValidation, Op: "register video",
			Message: fmt.Sprintf("%q is not a video file (%s)", ref.Name, ref.ContentType),
		}
	}
	if ref.Size > MaxSingleVideoSize {
		return nil, &Error{
			Kind: KindValidation, Op: "register video",
			Message: fmt.Sprintf("%q exceeds the %dMB upload limit", ref.Name, MaxSingleVideoSize>>20),
		}
	}
	id := newSyntheticID()
	return &VideoDraft{
		Video: Video{
			ID:        id,
			Title:     title,
			VideoType: "file",
		},
		Source:     VideoSource{Kind: SourcePendingFile, File: &ref},
		PreviewURL: localPreviewScheme + id,
	}, nil
}

// NewURLVideo registers a pasted URL as an external video. The video type is
// inferred once here: youtube hosts get "youtube", everything else "external".
func NewURLVideo(title, rawURL string) (*VideoDraft, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" || !strings.HasPrefix(u, "http") {
		return nil, &Error{Kind: KindValidation, Op: "register video", Message: "video URL must start with http(s)"}
	}
	return &VideoDraft{
		Video: Video{
			ID:        newSyntheticID(),
			Title:     title,
			VideoType: inferVideoType(u),
			VideoURL:  u,
		},
		Source: VideoSource{Kind: SourceExternalURL, URL: u},
	}, nil
}

func inferVideoType(u string) string {
	lower := strings.ToLower(u)
	if strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be") {
		return "youtube"
	}
	return "external"
}

// persistedVideo wraps a video that already lives on the server (edit flow).
func persistedVideo(v Video) *VideoDraft {
	return &VideoDraft{
		Video:  v,
		Source: VideoSource{Kind: SourcePersisted, URL: v.VideoURL},
	}
}

// persistable reports whether the video may appear in a JSON payload sent to
// the backend: pending files are stripped, and so is anything whose resolved
// URL is empty or still a local preview reference.
func (v *VideoDraft) persistable() bool {
	if v.Source.Kind == SourcePendingFile {
		return false
	}
	url := strings.TrimSpace(v.VideoURL)
	if url == "" || strings.HasPrefix(url, localPreviewScheme) {
		return false
	}
	return true
}

// markPersisted merges a server-side upload result into the draft and drops
// the pending file plus its preview reference.
func (v *VideoDraft) markPersisted(up UploadedVideo) {
	if up.ID != "" {
		v.ID = up.ID
	}
	if up.VideoURL != "" {
		v.VideoURL = up.VideoURL
	}
	if up.ThumbnailURL != "" {
		v.ThumbnailURL = up.ThumbnailURL
	}
	if up.DurationSeconds > 0 {
		mins := (up.DurationSeconds + 59) / 60
		v.Duration = fmt.Sprintf("%d", mins)
	}
	v.Source = VideoSource{Kind: SourcePersisted, URL: v.VideoURL}
	v.PreviewURL = ""
}
