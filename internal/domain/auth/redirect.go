package auth

import (
	"net/url"
	"strings"
)

// PostmessageSentinel is the literal allow-list entry that permits popup-based
// auth-code flows which never redirect to a real URL.
const PostmessageSentinel = "postmessage"

// Allowlist validates client-supplied OAuth callback URIs against a configured
// set of origin+path-prefix entries. It is immutable after construction and
// performs no network calls or side effects.
type Allowlist struct {
	entries     []*url.URL
	postmessage bool
}

// NewAllowlist builds an Allowlist from configured entries. The literal
// "postmessage" sentinel is tracked separately; remaining entries must parse
// as absolute URLs with a host, anything else is discarded.
func NewAllowlist(entries []string) Allowlist {
	var a Allowlist
	for _, entry := range entries {
		if entry == PostmessageSentinel {
			a.postmessage = true
			continue
		}
		u, err := url.Parse(entry)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		a.entries = append(a.entries, u)
	}
	return a
}

// IsAllowed reports whether the candidate URI may complete an OAuth exchange.
// The candidate is allowed when its origin (scheme+host+port) exactly equals
// some entry's origin and its path starts with that entry's path prefix.
// Malformed candidates are rejected, never raised to the caller.
//
// The path comparison is a plain prefix match: an entry path of "/auth" also
// matches a candidate path of "/authorize". This mirrors the platform's
// historical behavior and is kept as-is.
func (a Allowlist) IsAllowed(candidate string) bool {
	if candidate == PostmessageSentinel {
		return a.postmessage
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	for _, entry := range a.entries {
		if u.Scheme == entry.Scheme && u.Host == entry.Host && strings.HasPrefix(u.Path, entry.Path) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no entries were configured at all.
func (a Allowlist) IsEmpty() bool {
	return !a.postmessage && len(a.entries) == 0
}
