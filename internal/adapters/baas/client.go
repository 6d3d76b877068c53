package baas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-adoption/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("baas client not configured")
	ErrUpstream      = errors.New("baas upstream error")
)

type Config struct {
	URL     string
	AnonKey string

	// ServiceKey se usa para tablas y storage desde el servidor. Vacío => AnonKey.
	ServiceKey string

	Bucket  string
	Timeout time.Duration
}

// Client habla con un backend compatible con Supabase (auth, PostgREST, storage).
type Client struct {
	http *httpclient.Client
	cfg  Config
}

func NewClient(cfg Config) (*Client, error) {
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.AnonKey = strings.TrimSpace(cfg.AnonKey)
	cfg.ServiceKey = strings.TrimSpace(cfg.ServiceKey)
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.ServiceKey == "" {
		cfg.ServiceKey = cfg.AnonKey
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		cfg.Bucket = "image"
	}

	hc, err := httpclient.NewWithBaseURL(cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, cfg: cfg}, nil
}

// anonHeaders: llamadas de auth en nombre del usuario (token opcional).
func (c *Client) anonHeaders(token string) map[string]string {
	if token == "" {
		token = c.cfg.AnonKey
	}
	return map[string]string{
		"apikey":        c.cfg.AnonKey,
		"Authorization": "Bearer " + token,
	}
}

// serviceHeaders: tablas y storage.
func (c *Client) serviceHeaders(extra map[string]string) map[string]string {
	h := map[string]string{
		"apikey":        c.cfg.ServiceKey,
		"Authorization": "Bearer " + c.cfg.ServiceKey,
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func (c *Client) do(ctx context.Context, req httpclient.Request, out any) error {
	if err := c.http.Do(ctx, req, out); err != nil {
		if httpclient.StatusOf(err) != 0 {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

func eq(v string) string { return "eq." + v }

func query(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}

// restError normaliza errores de PostgREST que no son "no encontrado".
func restError(err error) error {
	if err == nil {
		return nil
	}
	if st := httpclient.StatusOf(err); st >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return err
}
