// Package upstream is the HTTP client the gateway uses to reach the content
// backend. It relays the backend's {success, data, error} envelope untouched
// and distinguishes "the backend answered" from "the backend is unreachable",
// which is what decides whether mirror/seed fallbacks kick in.
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnreachable wraps every transport-level failure (refused connection,
// DNS, timeout) and the not-configured case.
var ErrUnreachable = errors.New("upstream unreachable")

func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

type Client struct {
	Base string
	http *http.Client
	big  *http.Client // long timeout, multipart forwarding
}

func New(base string) *Client {
	return &Client{
		Base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
		big:  &http.Client{Timeout: 10 * time.Minute},
	}
}

// Get performs a read against the backend and returns the raw envelope body
// plus the upstream status code. err is non-nil only when the backend could
// not be reached at all.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	return c.send(ctx, http.MethodGet, path, query, nil, "")
}

// SendJSON relays a mutating call with a JSON body.
func (c *Client) SendJSON(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	return c.send(ctx, method, path, nil, bytes.NewReader(body), "application/json")
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (int, []byte, error) {
	if c.Base == "" {
		return 0, nil, fmt.Errorf("%w: no base url configured", ErrUnreachable)
	}
	u := c.Base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return resp.StatusCode, raw, nil
}

// SendMultipart rebuilds an already-parsed multipart form and forwards it.
// Used by the batch video passthrough after the gateway's MIME/size gate.
func (c *Client) SendMultipart(ctx context.Context, path string, form *multipart.Form) (int, []byte, error) {
	if c.Base == "" {
		return 0, nil, fmt.Errorf("%w: no base url configured", ErrUnreachable)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := copyForm(mw, form)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, pr)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.big.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return resp.StatusCode, raw, nil
}

func copyForm(mw *multipart.Writer, form *multipart.Form) error {
	for field, values := range form.Value {
		for _, v := range values {
			if err := mw.WriteField(field, v); err != nil {
				return err
			}
		}
	}
	for field, headers := range form.File {
		for _, fh := range headers {
			part, err := mw.CreateFormFile(field, fh.Filename)
			if err != nil {
				return err
			}
			src, err := fh.Open()
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, src); err != nil {
				src.Close()
				return err
			}
			src.Close()
		}
	}
	return nil
}
