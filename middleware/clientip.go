package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// clientIPContextKey is used as a key for storing client IP in request context.
type clientIPContextKey struct{}

// forwardedHeaders are consulted in priority order when proxy headers are trusted.
var forwardedHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// ClientIPConfig configures the client IP extraction middleware.
type ClientIPConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// TrustProxyHeaders enables CF-Connecting-IP, DO-Connecting-IP,
	// X-Forwarded-For and X-Real-IP. Enable only behind a proxy that
	// overwrites them.
	TrustProxyHeaders bool
}

// ClientIP stores the peer address in the request context.
func ClientIP() func(http.Handler) http.Handler {
	return ClientIPWithConfig(ClientIPConfig{})
}

// ClientIPWithConfig creates a client IP extraction middleware with custom configuration.
func ClientIPWithConfig(cfg ClientIPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			ip := ExtractIP(r, cfg.TrustProxyHeaders)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIPContextKey{}, ip)))
		})
	}
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}

// ExtractIP returns the client address of r. With trustHeaders the proxy
// headers are checked first; the leftmost X-Forwarded-For entry wins.
// Falls back to the host part of RemoteAddr, or RemoteAddr verbatim.
func ExtractIP(r *http.Request, trustHeaders bool) string {
	if trustHeaders {
		for _, h := range forwardedHeaders {
			v := r.Header.Get(h)
			if v == "" {
				continue
			}
			if h == "X-Forwarded-For" {
				v, _, _ = strings.Cut(v, ",")
			}
			if ip := normalizeIP(v); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalizeIP(host); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func normalizeIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
