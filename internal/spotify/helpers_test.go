package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

// executedCall records one exchange seen by the fake transport.
type executedCall struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

// fakeTransport implements [Transport] with a scripted handler and records
// every call for assertions.
type fakeTransport struct {
	handler func(call executedCall) (string, error)
	calls   []executedCall
}

func (f *fakeTransport) Execute(ctx context.Context, method, url string, header http.Header, body string) (string, error) {
	call := executedCall{Method: method, URL: url, Header: header, Body: body}
	f.calls = append(f.calls, call)
	return f.handler(call)
}

// apiCalls returns the calls that went to the resource API (not the token endpoint).
func (f *fakeTransport) apiCalls() []executedCall {
	var out []executedCall
	for _, c := range f.calls {
		if !strings.Contains(c.URL, "accounts.spotify.com") {
			out = append(out, c)
		}
	}
	return out
}

// tokenCalls returns the calls that went to the token endpoint.
func (f *fakeTransport) tokenCalls() []executedCall {
	var out []executedCall
	for _, c := range f.calls {
		if strings.Contains(c.URL, "accounts.spotify.com") {
			out = append(out, c)
		}
	}
	return out
}

func tokenResponse(token string, expiresIn int) string {
	return fmt.Sprintf(`{"access_token":%q,"token_type":"Bearer","expires_in":%d}`, token, expiresIn)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestManager(t *testing.T, tr Transport, now func() time.Time) *TokenManager {
	t.Helper()
	mgr, err := NewTokenManager(TokenManagerOpts{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		Transport:    tr,
		Now:          now,
	})
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return mgr
}

func newTestClient(t *testing.T, tr Transport, now func() time.Time) *Client {
	t.Helper()
	client, err := NewClient(ClientOpts{
		Transport: tr,
		Tokens:    newTestManager(t, tr, now),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// validCredential returns a credential that will not expire during a test.
func validCredential(now time.Time) Credential {
	return Credential{AccessToken: "valid_token", TokenType: "Bearer", ExpiresAt: now.Add(time.Hour)}
}
