// Utilities for rendering HTTP requests as cURL commands.
package shared

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// redactedHeaders are never rendered with their real value.
var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

// RenderCurl formats an outgoing HTTP request as an equivalent cURL command.
//
// Sensitive headers are redacted. Intended for debug logging of API traffic;
// the output can be pasted into a shell to replay a request after filling in
// the redacted values.
func RenderCurl(method, url string, header http.Header, body string) string {
	var b strings.Builder

	b.WriteString("curl")
	if method != "" && method != http.MethodGet {
		fmt.Fprintf(&b, " -X %s", method)
	}
	fmt.Fprintf(&b, " '%s'", shellEscape(url))

	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range header[name] {
			if redactedHeaders[http.CanonicalHeaderKey(name)] {
				value = "<redacted>"
			}
			fmt.Fprintf(&b, " -H '%s: %s'", name, shellEscape(value))
		}
	}

	if body != "" {
		fmt.Fprintf(&b, " -d '%s'", shellEscape(body))
	}

	return b.String()
}

// shellEscape makes a value safe inside single quotes.
func shellEscape(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
