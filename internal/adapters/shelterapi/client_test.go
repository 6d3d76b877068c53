package shelterapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pet-adoption/internal/domain/shelter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okPayload = `{
  "AbdmAnimalProtect": [
    {"head": [
      {"list_total_count": 2},
      {"RESULT": {"CODE": "INFO-000", "MESSAGE": "정상 처리되었습니다."}},
      {"api_version": "1.0"}
    ]},
    {"row": [
      {
        "ABDM_IDNTFY_NO": "경기-수원-2024-00123",
        "RECEPT_DE": "20240501",
        "PBLANC_BEGIN_DE": "20240502",
        "PBLANC_END_DE": "20240512",
        "SPECIES_NM": "[개] 믹스견",
        "SIGUN_NM": "수원시",
        "SHTER_NM": "수원시 동물보호센터",
        "SHTER_TELNO": "031-000-0000",
        "REFINE_WGS84_LAT": 37.2636,
        "REFINE_WGS84_LOGT": "127.0286",
        "IMAGE_COURS": "http://img.example/a.jpg",
        "THUMB_IMAGE_COURS": null
      },
      {"ABDM_IDNTFY_NO": "경기-용인-2024-00077", "RECEPT_DE": "2024050", "SPECIES_NM": "[고양이] 코리안숏헤어"}
    ]}
  ]
}`

func newServer(t *testing.T, body string, hits *int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("KEY"))
		assert.Equal(t, "json", q.Get("Type"))
		assert.Equal(t, "1", q.Get("pIndex"))
		assert.Equal(t, "50", q.Get("pSize"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{BaseURL: baseURL, APIKey: "test-key", PageSize: 50, Timeout: time.Second}, nil)
}

func TestFetchAnimals_MapsRows(t *testing.T) {
	ts := newServer(t, okPayload, nil)

	items, err := newTestClient(ts.URL).FetchAnimals(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	a := items[0]
	assert.Equal(t, "경기-수원-2024-00123", a.ID)
	assert.Equal(t, "2024-05-01", a.IntakeDate)
	assert.Equal(t, "2024-05-12", a.NoticeEnd)
	assert.Equal(t, "[개]", a.Category())
	assert.Equal(t, "37.2636", a.Lat)
	assert.Equal(t, "127.0286", a.Lng)
	assert.Equal(t, "", a.ThumbURL)

	// Fecha mal formada se deja tal cual.
	assert.Equal(t, "2024050", items[1].IntakeDate)
}

func TestFetchAnimals_NoDataIsEmpty(t *testing.T) {
	ts := newServer(t, `{"RESULT":{"CODE":"INFO-200","MESSAGE":"해당하는 데이터가 없습니다."}}`, nil)

	items, err := newTestClient(ts.URL).FetchAnimals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchAnimals_UpstreamErrors(t *testing.T) {
	cases := map[string]string{
		"bad key":     `{"RESULT":{"CODE":"ERROR-290","MESSAGE":"인증키가 유효하지 않습니다."}}`,
		"bad json":    `<html>`,
		"short shape": `{"AbdmAnimalProtect":[{"head":[]}]}`,
		"head error":  `{"AbdmAnimalProtect":[{"head":[{"RESULT":{"CODE":"ERROR-500","MESSAGE":"서버 오류"}}]},{"row":[]}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ts := newServer(t, body, nil)
			_, err := newTestClient(ts.URL).FetchAnimals(context.Background())
			assert.ErrorIs(t, err, shelter.ErrUpstream)
		})
	}
}

func TestFetchAnimals_HTTPErrorIsUpstream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).FetchAnimals(context.Background())
	assert.ErrorIs(t, err, shelter.ErrUpstream)
}

func TestFetchAnimals_NotConfigured(t *testing.T) {
	_, err := NewClient(Config{}, nil).FetchAnimals(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetchAnimals_RateLimitHonorsContext(t *testing.T) {
	var hits int32
	ts := newServer(t, okPayload, &hits)

	c := NewClient(Config{BaseURL: ts.URL, APIKey: "test-key", PageSize: 50, RPS: 0.001, Burst: 1}, nil)

	_, err := c.FetchAnimals(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.FetchAnimals(ctx)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
