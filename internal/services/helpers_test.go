package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotx/internal/spotify"
)

// routedTransport implements spotify.Transport by matching URL substrings
// against scripted responses, recording every call for assertions. When
// several substrings match, the longest one wins.
type routedTransport struct {
	routes map[string]string // URL substring -> response body
	errs   map[string]error  // URL substring -> error
	calls  []string
}

func (f *routedTransport) Execute(ctx context.Context, method, url string, header http.Header, body string) (string, error) {
	f.calls = append(f.calls, url)

	match := ""
	for substr := range f.errs {
		if strings.Contains(url, substr) && len(substr) > len(match) {
			match = substr
		}
	}
	for substr := range f.routes {
		if strings.Contains(url, substr) && len(substr) > len(match) {
			match = substr
		}
	}

	if err, ok := f.errs[match]; ok {
		return "", err
	}
	if resp, ok := f.routes[match]; ok {
		return resp, nil
	}
	return `{}`, nil
}

func (f *routedTransport) apiCalls() []string {
	var out []string
	for _, url := range f.calls {
		if !strings.Contains(url, "accounts.spotify.com") {
			out = append(out, url)
		}
	}
	return out
}

func newTestCatalog(t *testing.T, tr spotify.Transport) *Catalog {
	t.Helper()

	mgr, err := spotify.NewTokenManager(spotify.TokenManagerOpts{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		Transport:    tr,
	})
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}

	client, err := spotify.NewClient(spotify.ClientOpts{Transport: tr, Tokens: mgr})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	cred := spotify.Credential{
		AccessToken: "test_token",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	catalog, err := NewCatalog(client, cred, nil)
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	return catalog
}
