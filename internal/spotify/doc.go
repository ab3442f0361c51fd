// Package spotify implements the low-level Spotify Web API client: token
// lifecycle, request building and cursor-following pagination.
//
// # Transport
//
// All HTTP traffic goes through the [Transport] interface so the token and
// pagination machinery can be exercised against scripted fakes. The production
// implementation is [HTTPTransport], which adds a request rate limit and
// treats non-2xx statuses as errors.
//
// # Credentials
//
// [Credential] is an immutable value: renewal produces a new credential
// instead of mutating the old one, and every operation accepts a credential
// and returns a possibly-renewed replacement. There is no process-wide token
// cache; callers thread the returned credential into their next call (the
// services package does this for the CLI). A credential whose expiry has
// arrived is never used to authorize a request.
//
// # Pagination
//
// [Client.Fetch] returns a [Pager], a pull-based iterator over every item of
// a paginated resource. Pages are fetched on demand, one in flight at a time;
// abandoning the iterator never issues another request. A response without
// the items/next collection shape is yielded whole as a single item, and a
// body that is not JSON at all is passed through as raw text rather than
// treated as a failure.
package spotify
