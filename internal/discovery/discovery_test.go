package discovery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/n7z/jobradar/internal/config"
	"github.com/n7z/jobradar/internal/ratelimit"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func rewriteClient(srv *httptest.Server) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
}

func newTestEngine(srv *httptest.Server) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(rewriteClient(srv), ratelimit.NewLimiter(0, nil), logger)
}

func TestProbe_ProposesLiveBoards(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/boards/acme/jobs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"jobs":[{"id":1,"title":"DevOps Engineer","location":{"name":"Remote"},"absolute_url":"https://example.com/1"},{"id":2,"title":"SRE","location":{"name":"NYC"},"absolute_url":"https://example.com/2"}]}`)
	})
	mux.HandleFunc("/v1/boards/empty/jobs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"jobs":[]}`)
	})
	mux.HandleFunc("/v1/boards/gone/jobs", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	engine := newTestEngine(srv)
	proposals, failures, err := engine.Probe(context.Background(), "greenhouse",
		[]string{"acme", "empty", "gone"}, config.Registry{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if len(proposals) != 1 {
		t.Fatalf("proposals = %+v, want 1", proposals)
	}
	if proposals[0].BoardID != "acme" || proposals[0].Listings != 2 {
		t.Errorf("proposal = %+v", proposals[0])
	}
	if len(failures) != 1 || failures[0].BoardID != "gone" {
		t.Errorf("failures = %+v, want one for gone", failures)
	}
}

func TestProbe_SkipsRegisteredBoards(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/boards/acme/jobs", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, `{"jobs":[{"id":1,"title":"SRE","location":{"name":"Remote"},"absolute_url":"https://example.com/1"}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	engine := newTestEngine(srv)
	reg := config.Registry{"greenhouse": {"Acme": "acme"}}
	proposals, failures, err := engine.Probe(context.Background(), "greenhouse", []string{"acme"}, reg)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(proposals) != 0 || len(failures) != 0 {
		t.Errorf("proposals = %v, failures = %v, want none", proposals, failures)
	}
	if calls != 0 {
		t.Errorf("registered board was probed %d times", calls)
	}
}

func TestProbe_RejectsUnknownATS(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	engine := newTestEngine(srv)
	if _, _, err := engine.Probe(context.Background(), "workday", []string{"acme"}, config.Registry{}); err == nil {
		t.Fatal("expected error for unknown ats")
	}
}

func TestProbe_StopsOnContextCancellation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"jobs":[]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine(srv)
	_, _, err := engine.Probe(ctx, "greenhouse", []string{"a", "b"}, config.Registry{})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
