package helper

import (
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

// RelayGet proxies a read to the content backend. A successful answer is
// written through to the mirror; when the backend is unreachable the chain is
// mirror (last known good) then seed.
func RelayGet(c *fiber.Ctx, up *upstream.Client, mirror *mirrorsvc.MirrorService, key, path string, query url.Values, seed func() interface{}) error {
	status, body, err := up.Get(c.UserContext(), path, query)
	if err == nil {
		if status >= 200 && status < 300 && key != "" {
			mirror.Store(key, body)
		}
		return Relay(c, status, body)
	}
	if !upstream.IsUnreachable(err) {
		return Error(c, fiber.StatusBadGateway, "Upstream request failed")
	}

	if stored, ok := mirror.Load(key); ok && key != "" {
		var envelope struct {
			Data interface{} `json:"data"`
		}
		if sonic.Unmarshal(stored, &envelope) == nil && envelope.Data != nil {
			return SuccessWithSource(c, envelope.Data, "mirror")
		}
	}
	if seed != nil {
		return SuccessWithSource(c, seed(), "seed")
	}
	return Error(c, fiber.StatusServiceUnavailable, "Content backend unavailable")
}

// RelayWrite proxies a mutating JSON call. Writes have no fallback: if the
// backend is down the caller gets a 503 and nothing is persisted anywhere.
func RelayWrite(c *fiber.Ctx, up *upstream.Client, method, path string, body []byte) error {
	status, respBody, err := up.SendJSON(c.UserContext(), method, path, body)
	if err != nil {
		return Error(c, fiber.StatusServiceUnavailable, "Content backend unavailable")
	}
	return Relay(c, status, respBody)
}
