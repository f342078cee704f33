package auth

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultLoginRedirect is used when no pending destination was recorded.
const DefaultLoginRedirect = "/listings"

// listingPathRegex matches a listing page or any sub-resource below it,
// e.g. /listings/abc/edit or /listings/abc/reviews.
var listingPathRegex = regexp.MustCompile(`^/listings/([^/?#]+)(?:[/?#].*)?$`)

// ResolveLoginRedirect maps a consumed pending destination to the
// post-login redirect target.
func ResolveLoginRedirect(pending string) string {
	if !isLocalPath(pending) {
		return DefaultLoginRedirect
	}

	if m := listingPathRegex.FindStringSubmatch(pending); m != nil {
		return "/listings/" + m[1]
	}

	return pending
}

// PendingDestination picks the path to remember for a request that was
// bounced to the login page. Safe reads remember the request URI; other
// methods prefer the referring page, since re-issuing a form POST via a GET
// redirect is meaningless.
func PendingDestination(method, requestURI, referer string) string {
	if method == "GET" || method == "HEAD" || referer == "" {
		return requestURI
	}

	ref, err := url.Parse(referer)
	if err != nil || ref.Path == "" {
		return requestURI
	}

	dest := ref.EscapedPath()
	if ref.RawQuery != "" {
		dest += "?" + ref.RawQuery
	}
	return dest
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
