package canvas

import "strings"

// nextPageURL extracts the rel="next" target from a Link response header.
// Canvas paginates every collection endpoint with RFC 5988 Link headers:
//
//	<https://canvas.test/api/v1/courses?page=2>; rel="next", <...>; rel="last"
//
// It returns "" when the header is absent or carries no next relation,
// which is how the last page announces itself.
func nextPageURL(linkHeader string) string {
	for _, entry := range strings.Split(linkHeader, ",") {
		parts := strings.Split(entry, ";")
		if len(parts) < 2 {
			continue
		}

		target := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}

		for _, param := range parts[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}
