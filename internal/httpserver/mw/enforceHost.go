package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/utils"
)

// hostSet holds exact hosts and "*.suffix" wildcards, lowercased and without
// ports.
type hostSet struct {
	exact    map[string]bool
	suffixes []string
}

func newHostSet(patterns []string) hostSet {
	hs := hostSet{exact: make(map[string]bool, len(patterns))}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		switch {
		case p == "":
		case strings.HasPrefix(p, "*."):
			hs.suffixes = append(hs.suffixes, p[1:])
		default:
			hs.exact[utils.ParseHostNoPort(p)] = true
		}
	}
	return hs
}

func (hs hostSet) empty() bool { return len(hs.exact) == 0 && len(hs.suffixes) == 0 }

func (hs hostSet) match(host string) bool {
	host = strings.ToLower(utils.ParseHostNoPort(host))
	if hs.exact[host] {
		return true
	}
	for _, s := range hs.suffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}

// EnforceHost rejects requests whose Host header is not listed. Wildcards
// like "*.example.com" match any subdomain. An empty list lets everything
// through.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	hosts := newHostSet(allowedHosts)
	if hosts.empty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hosts.match(r.Host) {
				log.Warn("host rejected", logger.String("host", r.Host), logger.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
