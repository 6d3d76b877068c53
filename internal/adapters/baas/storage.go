package baas

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"pet-adoption/internal/platform/httpclient"
)

// Storage implementa objectstore.Store contra /storage/v1 (bucket público).
type Storage struct {
	c *Client
}

func NewStorage(c *Client) *Storage {
	return &Storage{c: c}
}

func (s *Storage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return restError(s.c.do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/storage/v1/object/" + s.objectPath(key),
		Headers: s.c.serviceHeaders(map[string]string{
			"Content-Type": contentType,
			"x-upsert":     "true",
		}),
		Raw: data,
	}, nil))
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	return restError(s.c.do(ctx, httpclient.Request{
		Method:  http.MethodDelete,
		Path:    "/storage/v1/object/" + url.PathEscape(s.c.cfg.Bucket),
		Headers: s.c.serviceHeaders(nil),
		JSON:    map[string][]string{"prefixes": {key}},
	}, nil))
}

func (s *Storage) PublicURL(key string) string {
	return s.c.cfg.URL + "/storage/v1/object/public/" + s.objectPath(key)
}

func (s *Storage) objectPath(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return url.PathEscape(s.c.cfg.Bucket) + "/" + strings.Join(parts, "/")
}
