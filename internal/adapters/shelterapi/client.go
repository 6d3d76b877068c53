package shelterapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/domain/shelter"
	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/platform/logger"

	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured = errors.New("shelter api client not configured")
)

const (
	DefaultBaseURL = "https://openapi.gg.go.kr/AbdmAnimalProtect"

	codeOK     = "INFO-000"
	codeNoData = "INFO-200"
)

type Config struct {
	BaseURL string
	APIKey  string

	// Lote fijo: la API no filtra, así que siempre pedimos la misma página.
	PageSize  int
	PageIndex int

	Timeout time.Duration

	// RPS <= 0 desactiva el rate limit saliente.
	RPS   float64
	Burst int
}

// Client implementa shelter.Source contra la API abierta de Gyeonggi.
type Client struct {
	http    *httpclient.Client
	cfg     Config
	limiter *rate.Limiter
	log     logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.PageIndex <= 0 {
		cfg.PageIndex = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if log == nil {
		log = logger.NewNop()
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	return &Client{
		http:    httpclient.New(cfg.Timeout),
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		log:     log.With(map[string]any{"component": "shelterapi"}),
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// FetchAnimals pide el lote configurado. No reintenta: el error sube tal cual.
func (c *Client) FetchAnimals(ctx context.Context) ([]shelter.Animal, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := c.http.DoRaw(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   c.cfg.BaseURL,
		Query: url.Values{
			"KEY":    {c.cfg.APIKey},
			"Type":   {"json"},
			"pIndex": {strconv.Itoa(c.cfg.PageIndex)},
			"pSize":  {strconv.Itoa(c.cfg.PageSize)},
		},
	})
	if err != nil {
		c.log.Warn("shelter api request failed", map[string]any{"err": err, "status": httpclient.StatusOf(err)})
		return nil, fmt.Errorf("%w: %v", shelter.ErrUpstream, err)
	}

	rows, err := decode(raw)
	if err != nil {
		c.log.Warn("shelter api bad payload", map[string]any{"err": err})
		return nil, err
	}

	out := make([]shelter.Animal, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toAnimal())
	}

	c.log.Debug("shelter api fetched", map[string]any{
		"rows":        len(out),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}

// decode toma el "row" del segundo elemento del array AbdmAnimalProtect.
// INFO-200 (sin datos) es un lote vacío, no un error.
func decode(raw []byte) ([]row, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", shelter.ErrUpstream, err)
	}

	if env.Result != nil {
		if env.Result.Code == codeNoData {
			return []row{}, nil
		}
		return nil, fmt.Errorf("%w: %s %s", shelter.ErrUpstream, env.Result.Code, env.Result.Message)
	}

	if len(env.Sections) < 2 {
		return nil, fmt.Errorf("%w: unexpected payload shape", shelter.ErrUpstream)
	}

	for _, h := range env.Sections[0].Head {
		if h.Result == nil {
			continue
		}
		switch h.Result.Code {
		case codeOK:
		case codeNoData:
			return []row{}, nil
		default:
			return nil, fmt.Errorf("%w: %s %s", shelter.ErrUpstream, h.Result.Code, h.Result.Message)
		}
	}

	rows := env.Sections[1].Row
	if rows == nil {
		rows = []row{}
	}
	return rows, nil
}
