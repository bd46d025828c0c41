package powerof10

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

// fixtureServer serves canned pages by path and records every request URI.
type fixtureServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

func newFixtureServer(t *testing.T, routes map[string]http.HandlerFunc) *fixtureServer {
	t.Helper()
	fs := &fixtureServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.requests = append(fs.requests, r.URL.RequestURI())
		fs.mu.Unlock()

		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fixtureServer) Requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.requests...)
}

func (fs *fixtureServer) client(opts ...Option) *Client {
	return New(append([]Option{WithBaseURL(fs.URL)}, opts...)...)
}

func serveFixture(t *testing.T, name string) http.HandlerFunc {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

type memoryRecorder struct {
	mu    sync.Mutex
	pages map[string][]byte
}

func (m *memoryRecorder) Record(op, query string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pages == nil {
		m.pages = make(map[string][]byte)
	}
	m.pages[op+" "+query] = body
	return nil
}

func TestFetchSendsUserAgent(t *testing.T) {
	agents := make(chan string, 2)
	srv := newFixtureServer(t, map[string]http.HandlerFunc{
		rankingListPath: func(w http.ResponseWriter, r *http.Request) {
			agents <- r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("<html></html>"))
		},
	})

	_, err := srv.client().GetRankings(context.Background(), RankingQuery{
		Year: "2022", Gender: "M", AgeGroup: "U20", Event: "400",
	})
	require.NoError(t, err)
	require.Equal(t, UserAgent, <-agents)

	_, err = srv.client(WithUserAgent("custom/2.0")).GetRankings(context.Background(), RankingQuery{
		Year: "2022", Gender: "M", AgeGroup: "U20", Event: "400",
	})
	require.NoError(t, err)
	require.Equal(t, "custom/2.0", <-agents)
}

func TestWithHTTPClient(t *testing.T) {
	headers := make(chan string, 1)
	fixture := serveFixture(t, "athletes_single.html")
	srv := newFixtureServer(t, map[string]http.HandlerFunc{
		athleteLookupPath: func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Get("X-Po10-Test")
			fixture(w, r)
		},
	})

	rc := resty.New().SetHeader("X-Po10-Test", "injected")
	athletes, err := srv.client(WithHTTPClient(rc)).SearchAthletes(context.Background(), AthleteQuery{Surname: "Qureshi"})
	require.NoError(t, err)
	require.Len(t, athletes, 1)
	require.Equal(t, "injected", <-headers)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := newFixtureServer(t, map[string]http.HandlerFunc{
		athleteLookupPath: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})

	_, err := srv.client().SearchAthletes(context.Background(), AthleteQuery{Surname: "Qureshi"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTransport))
	require.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestFetchTimeout(t *testing.T) {
	srv := newFixtureServer(t, map[string]http.HandlerFunc{
		athleteLookupPath: func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	})

	_, err := srv.client(WithTimeout(50*time.Millisecond)).SearchAthletes(context.Background(), AthleteQuery{Surname: "Qureshi"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTransport))

	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "SearchAthletes", perr.Op)
}

func TestFetchCanceledContext(t *testing.T) {
	srv := newFixtureServer(t, map[string]http.HandlerFunc{
		athleteLookupPath: serveFixture(t, "athletes_single.html"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := srv.client().SearchAthletes(ctx, AthleteQuery{Surname: "Qureshi"})
	require.True(t, errors.Is(err, ErrTransport))
}

func TestFetchRecordsPages(t *testing.T) {
	srv := newFixtureServer(t, map[string]http.HandlerFunc{
		athleteLookupPath: serveFixture(t, "athletes_single.html"),
	})
	rec := &memoryRecorder{}

	_, err := srv.client(WithCapture(rec)).SearchAthletes(context.Background(), AthleteQuery{Firstname: "Yasser", Surname: "Qureshi"})
	require.NoError(t, err)

	body, ok := rec.pages["SearchAthletes /athletes/athleteslookup.aspx?surname=Qureshi&firstname=Yasser"]
	require.True(t, ok, "page not recorded: %v", rec.pages)
	require.Contains(t, string(body), "522041")
}

func TestRedirected(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		final string
		want  bool
	}{
		{"same path", coachLookupPath, "http://host/coaches/coacheslookup.aspx?surname=Brown", false},
		{"profile", coachLookupPath, "http://host/athletes/profile.aspx?athleteid=1", true},
		{"unknown final", coachLookupPath, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &page{path: tt.path}
			if tt.final != "" {
				u, err := url.Parse(tt.final)
				require.NoError(t, err)
				p.finalURL = u
			}
			if got := p.redirected(); got != tt.want {
				t.Errorf("redirected() = %v, want %v", got, tt.want)
			}
		})
	}
}
