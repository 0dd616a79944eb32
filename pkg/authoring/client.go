package authoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a thin REST client over the content backend contracts. All
// responses share the {success, data, error} envelope.
type Client struct {
	base string
	http *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient swaps the underlying http.Client (timeouts, transports).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindUnknown, Op: op, Err: err}
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(op, err)
	}
	defer resp.Body.Close()
	return decodeEnvelope(op, resp, out)
}

func decodeEnvelope(op string, resp *http.Response, out interface{}) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(op, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{
			Kind: KindBackend, Op: op,
			Message: fmt.Sprintf("unexpected response (status %d)", resp.StatusCode),
			Err:     err,
		}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return &Error{Kind: KindBackend, Op: op, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindBackend, Op: op, Message: "malformed data payload", Err: err}
		}
	}
	return nil
}

// Categories fetches the full category list; filtering to active entries is
// the cache's job.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	q := url.Values{"fetchAll": {"true"}}
	if err := c.doJSON(ctx, "fetch categories", http.MethodGet, "/categories", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Subcategories(ctx context.Context, categoryID string) ([]Category, error) {
	var out []Category
	q := url.Values{"fetchAll": {"true"}, "categoryId": {categoryID}}
	if err := c.doJSON(ctx, "fetch subcategories", http.MethodGet, "/subcategories", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTopic(ctx context.Context, id string) (*Topic, error) {
	var out Topic
	if err := c.doJSON(ctx, "fetch topic", http.MethodGet, "/topics/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTopic(ctx context.Context, t *Topic) (*Topic, error) {
	var out Topic
	if err := c.doJSON(ctx, "create topic", http.MethodPost, "/topics", nil, t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTopic(ctx context.Context, id string, t *Topic) (*Topic, error) {
	var out Topic
	if err := c.doJSON(ctx, "update topic", http.MethodPut, "/topics/"+id, nil, t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTopic(ctx context.Context, id string) error {
	return c.doJSON(ctx, "delete topic", http.MethodDelete, "/topics/"+id, nil, nil, nil)
}

// RegisterVideo registers a single URL-based video against a durable module.
func (c *Client) RegisterVideo(ctx context.Context, topicID, moduleID string, v Video) (*Video, error) {
	var out Video
	path := fmt.Sprintf("/topics/%s/modules/%s/videos", topicID, moduleID)
	if err := c.doJSON(ctx, "register video", http.MethodPost, path, nil, v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchItem pairs a pending file with its metadata for one multipart upload.
type BatchItem struct {
	File        FileRef
	Title       string
	Description string
	Duration    string
	Order       int
}

// UploadVideoBatch sends all pending files of one module in a single
// multipart request: repeated "videos" file parts plus parallel metadata
// arrays. The tolerated response shapes are normalized before returning.
func (c *Client) UploadVideoBatch(ctx context.Context, topicID, moduleID string, items []BatchItem) ([]UploadedVideo, error) {
	const op = "upload video batch"
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeBatchForm(mw, items)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	path := fmt.Sprintf("%s/topics/%s/modules/%s/videos/batch", c.base, topicID, moduleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, pr)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(op, err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := decodeEnvelope(op, resp, &raw); err != nil {
		return nil, err
	}
	return normalizeBatchResponse(raw), nil
}

func writeBatchForm(mw *multipart.Writer, items []BatchItem) error {
	for _, it := range items {
		part, err := mw.CreateFormFile("videos", it.File.Name)
		if err != nil {
			return err
		}
		rc, err := it.File.Open()
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, rc); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}
	for _, it := range items {
		if err := mw.WriteField("titles[]", it.Title); err != nil {
			return err
		}
		if err := mw.WriteField("descriptions[]", it.Description); err != nil {
			return err
		}
		if err := mw.WriteField("durations[]", it.Duration); err != nil {
			return err
		}
		if err := mw.WriteField("orders[]", strconv.Itoa(it.Order)); err != nil {
			return err
		}
	}
	return nil
}

// normalizeBatchResponse accepts a bare array, {uploaded:[...]}, {videos:[...]}
// or a single object. Anything unrecognized yields an empty slice, leaving the
// requested videos in their un-uploaded state.
func normalizeBatchResponse(raw json.RawMessage) []UploadedVideo {
	if len(raw) == 0 {
		return nil
	}
	var list []UploadedVideo
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var wrapped struct {
		Uploaded []UploadedVideo `json:"uploaded"`
		Videos   []UploadedVideo `json:"videos"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if len(wrapped.Uploaded) > 0 {
			return wrapped.Uploaded
		}
		if len(wrapped.Videos) > 0 {
			return wrapped.Videos
		}
	}
	var single UploadedVideo
	if err := json.Unmarshal(raw, &single); err == nil && (single.ID != "" || single.VideoURL != "") {
		return []UploadedVideo{single}
	}
	return nil
}
