package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func itemInts(t *testing.T, items []json.RawMessage) []int {
	t.Helper()
	out := make([]int, 0, len(items))
	for _, raw := range items {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			t.Fatalf("item %s is not an int: %v", raw, err)
		}
		out = append(out, n)
	}
	return out
}

func TestPager(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("Single Page Terminates", func(t *testing.T) {
		tr := &fakeTransport{handler: func(executedCall) (string, error) {
			return `{"items":[1,2],"next":null}`, nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		items, _, err := client.Fetch(RequestSpec{Endpoint: "things"}, validCredential(now)).All(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := itemInts(t, items)
		if len(got) != 2 || got[0] != 1 || got[1] != 2 {
			t.Errorf("expected [1 2], got %v", got)
		}
		if len(tr.apiCalls()) != 1 {
			t.Errorf("expected one API call, got %d", len(tr.apiCalls()))
		}
	})

	t.Run("Follows Next Cursor", func(t *testing.T) {
		tr := &fakeTransport{handler: func(call executedCall) (string, error) {
			if call.URL == "https://api.spotify.com/v1/things" {
				return `{"items":[1,2],"next":"https://api.spotify.com/v1/things?offset=2"}`, nil
			}
			return `{"items":[3],"next":null}`, nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		items, _, err := client.Fetch(RequestSpec{Endpoint: "things"}, validCredential(now)).All(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := itemInts(t, items)
		if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
			t.Errorf("expected [1 2 3], got %v", got)
		}

		calls := tr.apiCalls()
		if len(calls) != 2 {
			t.Fatalf("expected two API calls, got %d", len(calls))
		}
		if calls[1].URL != "https://api.spotify.com/v1/things?offset=2" {
			t.Errorf("second call should hit the next URL exactly, got %s", calls[1].URL)
		}
	})

	t.Run("Extra Params Inherited Across Pages", func(t *testing.T) {
		tr := &fakeTransport{handler: func(call executedCall) (string, error) {
			if strings.Contains(call.URL, "offset=2") {
				return `{"items":[3],"next":null}`, nil
			}
			return `{"items":[1,2],"next":"https://api.spotify.com/v1/things?offset=2"}`, nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		spec := RequestSpec{Endpoint: "things", Params: []Param{{Key: "market", Value: "US"}}}
		if _, _, err := client.Fetch(spec, validCredential(now)).All(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		calls := tr.apiCalls()
		if len(calls) != 2 {
			t.Fatalf("expected two API calls, got %d", len(calls))
		}
		if calls[1].URL != "https://api.spotify.com/v1/things?offset=2&market=US" {
			t.Errorf("params should be appended to the next URL, got %s", calls[1].URL)
		}
	})

	t.Run("Non Collection Passthrough", func(t *testing.T) {
		tr := &fakeTransport{handler: func(executedCall) (string, error) {
			return `{"foo":"bar"}`, nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		items, _, err := client.Fetch(RequestSpec{Endpoint: "thing"}, validCredential(now)).All(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected single item, got %d", len(items))
		}
		var obj map[string]string
		if err := json.Unmarshal(items[0], &obj); err != nil {
			t.Fatalf("item should be the whole object: %v", err)
		}
		if obj["foo"] != "bar" {
			t.Errorf("unexpected item: %v", obj)
		}
	})

	t.Run("Items Without Next Is Not A Collection", func(t *testing.T) {
		tr := &fakeTransport{handler: func(executedCall) (string, error) {
			return `{"items":[1,2]}`, nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		items, _, err := client.Fetch(RequestSpec{Endpoint: "thing"}, validCredential(now)).All(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 1 {
			t.Errorf("object missing next should be yielded whole, got %d items", len(items))
		}
	})

	t.Run("Non JSON Body Is Opaque Text", func(t *testing.T) {
		tr := &fakeTransport{handler: func(executedCall) (string, error) {
			return "plain text response", nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		items, _, err := client.Fetch(RequestSpec{Endpoint: "thing"}, validCredential(now)).All(ctx)
		if err != nil {
			t.Fatalf("non-JSON body should not be an error, got %v", err)
		}
		if len(items) != 1 || string(items[0]) != "plain text response" {
			t.Errorf("expected raw text passthrough, got %v", items)
		}
	})

	t.Run("Lazy Fetching", func(t *testing.T) {
		tr := &fakeTransport{handler: func(call executedCall) (string, error) {
			if strings.Contains(call.URL, "page2") {
				return `{"items":[3],"next":null}`, nil
			}
			return `{"items":[1,2],"next":"https://api.spotify.com/v1/page2"}`, nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		pager := client.Fetch(RequestSpec{Endpoint: "things"}, validCredential(now))

		if len(tr.apiCalls()) != 0 {
			t.Fatal("no request should be issued before Next")
		}

		if !pager.Next(ctx) || !pager.Next(ctx) {
			t.Fatalf("expected two items, err=%v", pager.Err())
		}
		if len(tr.apiCalls()) != 1 {
			t.Errorf("second page should not be fetched while first page has items, got %d calls", len(tr.apiCalls()))
		}

		// Abandoning the pager here must not issue the second request.
		if len(tr.apiCalls()) != 1 {
			t.Errorf("expected one API call after abandoning, got %d", len(tr.apiCalls()))
		}
	})

	t.Run("Fail Fast Mid Stream", func(t *testing.T) {
		tr := &fakeTransport{handler: func(call executedCall) (string, error) {
			if strings.Contains(call.URL, "page2") {
				return "", errors.New("connection reset")
			}
			return `{"items":[1,2],"next":"https://api.spotify.com/v1/page2"}`, nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		pager := client.Fetch(RequestSpec{Endpoint: "things"}, validCredential(now))
		items, _, err := pager.All(ctx)
		if err == nil {
			t.Fatal("expected mid-stream failure to surface")
		}
		got := itemInts(t, items)
		if len(got) != 2 || got[0] != 1 || got[1] != 2 {
			t.Errorf("items before the failure should stand, got %v", got)
		}
		if pager.Next(ctx) {
			t.Error("no further items after a failure")
		}
	})

	t.Run("Credential Threaded Across Pages", func(t *testing.T) {
		tr := &fakeTransport{}
		tr.handler = func(call executedCall) (string, error) {
			if strings.Contains(call.URL, "accounts.spotify.com") {
				return tokenResponse("renewed", 3600), nil
			}
			if got := call.Header.Get("Authorization"); got != "Bearer renewed" {
				return "", errors.New("unexpected authorization: " + got)
			}
			if strings.Contains(call.URL, "page2") {
				return `{"items":[2],"next":null}`, nil
			}
			return `{"items":[1],"next":"https://api.spotify.com/v1/page2"}`, nil
		}
		client := newTestClient(t, tr, fixedClock(now))

		// Stale credential forces a renewal on the first page; the renewed
		// credential must serve the second page without another token call.
		stale := Credential{AccessToken: "stale", ExpiresAt: now.Add(-time.Minute)}
		pager := client.Fetch(RequestSpec{Endpoint: "things"}, stale)
		items, cred, err := pager.All(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 2 {
			t.Errorf("expected two items, got %d", len(items))
		}
		if cred.AccessToken != "renewed" {
			t.Errorf("expected renewed credential returned, got %+v", cred)
		}
		if len(tr.tokenCalls()) != 1 {
			t.Errorf("expected exactly one token call, got %d", len(tr.tokenCalls()))
		}
	})

	t.Run("Empty Page With Next Continues", func(t *testing.T) {
		tr := &fakeTransport{handler: func(call executedCall) (string, error) {
			if strings.Contains(call.URL, "page2") {
				return `{"items":[9],"next":null}`, nil
			}
			return `{"items":[],"next":"https://api.spotify.com/v1/page2"}`, nil
		}}
		client := newTestClient(t, tr, fixedClock(now))

		items, _, err := client.Fetch(RequestSpec{Endpoint: "things"}, validCredential(now)).All(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := itemInts(t, items)
		if len(got) != 1 || got[0] != 9 {
			t.Errorf("expected [9], got %v", got)
		}
	})
}

func TestDecodePage(t *testing.T) {
	t.Run("Collection With Next URL", func(t *testing.T) {
		items, next, ok := decodePage([]byte(`{"items":[1],"next":"U2"}`))
		if !ok {
			t.Fatal("expected collection page")
		}
		if len(items) != 1 {
			t.Errorf("expected one item, got %d", len(items))
		}
		if next == nil || *next != "U2" {
			t.Errorf("expected next U2, got %v", next)
		}
	})

	t.Run("Collection With Null Next", func(t *testing.T) {
		_, next, ok := decodePage([]byte(`{"items":[],"next":null}`))
		if !ok {
			t.Fatal("expected collection page")
		}
		if next != nil {
			t.Errorf("expected nil next, got %v", *next)
		}
	})

	t.Run("Items Not An Array", func(t *testing.T) {
		if _, _, ok := decodePage([]byte(`{"items":"nope","next":null}`)); ok {
			t.Error("non-array items should not be a collection")
		}
	})

	t.Run("Scalar", func(t *testing.T) {
		if _, _, ok := decodePage([]byte(`42`)); ok {
			t.Error("scalar should not be a collection")
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		if _, _, ok := decodePage([]byte(`not json`)); ok {
			t.Error("invalid JSON should not be a collection")
		}
	})
}
