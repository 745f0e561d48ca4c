package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"clickupai/common"

	"github.com/gin-gonic/gin"
)

// OriginAllowlist is the set of browser origins allowed to call the API and
// open analysis websockets. Requests without an Origin header are always
// allowed.
type OriginAllowlist map[string]struct{}

func (a OriginAllowlist) Allows(origin string) bool {
	if origin == "" {
		return true
	}
	_, ok := a[origin]
	return ok
}

// CheckOrigin is a websocket.Upgrader CheckOrigin func.
func (a OriginAllowlist) CheckOrigin(r *http.Request) bool {
	return a.Allows(r.Header.Get("Origin"))
}

// normalizeOrigin accepts scheme://host[:port] and nothing more.
func normalizeOrigin(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid origin %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid origin %q: must have scheme and host", raw)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("invalid origin %q: must not have a path, query or fragment", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

// ParseOriginAllowlist reads a comma-separated origin list. Blank entries are
// skipped.
func ParseOriginAllowlist(list string) (OriginAllowlist, error) {
	allowlist := OriginAllowlist{}
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		origin, err := normalizeOrigin(raw)
		if err != nil {
			return nil, err
		}
		allowlist[origin] = struct{}{}
	}
	return allowlist, nil
}

// DefaultOriginAllowlist allows the pages this server serves itself: the
// loopback names plus host, unless host is a wildcard bind address.
func DefaultOriginAllowlist(host string, port int) OriginAllowlist {
	hosts := []string{"localhost", "127.0.0.1", "[::1]"}
	if host != "" && host != "0.0.0.0" && host != "::" {
		hosts = append(hosts, host)
	}
	allowlist := OriginAllowlist{}
	for _, h := range hosts {
		allowlist[fmt.Sprintf("http://%s:%d", h, port)] = struct{}{}
	}
	return allowlist
}

// OriginAllowlistFromEnv prefers CLICKUPAI_ALLOWED_ORIGINS and otherwise
// derives the defaults from the configured server host and port.
func OriginAllowlistFromEnv() (OriginAllowlist, error) {
	if list := os.Getenv("CLICKUPAI_ALLOWED_ORIGINS"); list != "" {
		return ParseOriginAllowlist(list)
	}
	return DefaultOriginAllowlist(common.GetServerHost(), common.GetServerPort()), nil
}

// corsMiddleware rejects disallowed origins with 403 and answers preflights.
func corsMiddleware(allowlist OriginAllowlist) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		if !allowlist.Allows(origin) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
