package auth

import (
	"net/url"
	"strings"
)

// DefaultAuthPaths are the backend's own authentication endpoints. They
// never carry the bearer token and a 401 from them never ends the session.
var DefaultAuthPaths = []string{
	"/auth/login",
	"/auth/register",
	"/auth/refresh",
	"/auth/logout",
}

// Classifier reports whether a request URL is an authentication endpoint.
type Classifier func(u *url.URL) bool

// PathClassifier matches URLs whose path ends with one of paths. Suffix
// matching lets the backend live under a base path such as /api.
func PathClassifier(paths ...string) Classifier {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		cleaned = append(cleaned, "/"+strings.Trim(p, "/"))
	}
	return func(u *url.URL) bool {
		if u == nil {
			return false
		}
		path := "/" + strings.Trim(u.Path, "/")
		for _, p := range cleaned {
			if path == p || strings.HasSuffix(path, p) {
				return true
			}
		}
		return false
	}
}

// IsAuthEndpoint classifies u against DefaultAuthPaths.
var IsAuthEndpoint = PathClassifier(DefaultAuthPaths...)
