package adapter

import (
	"net/http"
	"net/http/httptest"
)

// roundTripFunc lets tests redirect adapter requests to an httptest server
// without changing the adapter's hard-coded base URL.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// rewriteClient returns an *http.Client that sends every request to srv,
// preserving the original path and query.
func rewriteClient(srv *httptest.Server) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
}
