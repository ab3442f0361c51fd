package spotify

import (
	"context"
	"encoding/json"
)

// Pager is a lazy pull iterator over every item of a paginated resource.
//
// Usage mirrors [database/sql.Rows]:
//
//	pager := client.Fetch(spec, cred)
//	for pager.Next(ctx) {
//		item := pager.Item()
//		// ...
//	}
//	if err := pager.Err(); err != nil { ... }
//	cred = pager.Credential()
//
// Each page is fetched only when the consumer advances past the items already
// buffered; abandoning the loop never issues the next request. A mid-stream
// failure stops iteration after the items fetched so far and is reported by
// Err.
type Pager struct {
	client  *Client
	spec    RequestSpec
	cred    Credential
	items   []json.RawMessage
	idx     int
	cur     json.RawMessage
	next    string
	started bool
	done    bool
	err     error
}

// Fetch returns a Pager over the paginated resource described by spec.
// No request is issued until the first call to [Pager.Next].
func (c *Client) Fetch(spec RequestSpec, cred Credential) *Pager {
	return &Pager{client: c, spec: spec, cred: cred}
}

// Next advances to the next item, fetching the next page when the current one
// is exhausted. It returns false when the sequence ends or a fetch fails.
func (p *Pager) Next(ctx context.Context) bool {
	for {
		if p.err != nil {
			return false
		}
		if p.idx < len(p.items) {
			p.cur = p.items[p.idx]
			p.idx++
			return true
		}
		if p.done {
			return false
		}
		p.fetch(ctx)
	}
}

// Item returns the item produced by the last successful call to Next.
// For a non-collection response this is the whole response body, which may
// not be valid JSON when the server returned opaque text.
func (p *Pager) Item() json.RawMessage {
	return p.cur
}

// Err returns the failure that ended iteration early, if any.
func (p *Pager) Err() error {
	return p.err
}

// Credential returns the credential after any renewals performed while
// fetching. Callers pass it into their next operation.
func (p *Pager) Credential() Credential {
	return p.cred
}

// All drains the pager and returns every item. On failure the items fetched
// before the failure are returned alongside the error.
func (p *Pager) All(ctx context.Context) ([]json.RawMessage, Credential, error) {
	var out []json.RawMessage
	for p.Next(ctx) {
		out = append(out, p.Item())
	}
	return out, p.cred, p.err
}

// fetch loads the next page: the original spec on the first call, then the
// spec rebound to each page's next URL. The credential returned by the client
// is threaded forward so a renewal mid-pagination serves later pages too.
func (p *Pager) fetch(ctx context.Context) {
	spec := p.spec
	if p.started {
		spec.URL = p.next
	}

	body, cred, err := p.client.Do(ctx, spec, p.cred)
	p.cred = cred
	if err != nil {
		p.err = err
		p.done = true
		return
	}

	p.started = true
	p.idx = 0

	items, next, ok := decodePage([]byte(body))
	if !ok {
		p.items = []json.RawMessage{json.RawMessage(body)}
		p.done = true
		return
	}

	p.items = items
	if next == nil {
		p.done = true
	} else {
		p.next = *next
	}
}

// decodePage reports whether body is a collection page: a JSON object
// carrying both an items array and a next cursor (URL or null). Anything
// else, including invalid JSON, is a terminal single value.
func decodePage(body []byte) (items []json.RawMessage, next *string, ok bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, nil, false
	}

	itemsRaw, hasItems := obj["items"]
	nextRaw, hasNext := obj["next"]
	if !hasItems || !hasNext {
		return nil, nil, false
	}

	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		return nil, nil, false
	}
	if err := json.Unmarshal(nextRaw, &next); err != nil {
		return nil, nil, false
	}

	return items, next, true
}
