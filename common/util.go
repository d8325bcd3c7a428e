package common

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
	"k8s.io/apiserver/pkg/authentication/user"
)

const bearerScheme = "bearer"

// HTTPHeaderOpts specifies the location of the user's identity inside HTTP
// headers.
type HTTPHeaderOpts struct {
	UserIDHeader string
	GroupsHeader string
}

func ReturnMessage(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(msg))
	if err != nil {
		log.Errorf("Failed to write body: %v", err)
	}
}

func MustParseURL(rawURL string) *url.URL {
	url, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return url
}

// IsLoopback reports whether a "host:port" remote address refers to the
// local host. Unparsable addresses are never loopback.
func IsLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	// Zone identifiers, as in [fe80::1%eth0], are not part of the IP.
	if i := strings.IndexByte(host, '%'); i >= 0 {
		host = host[:i]
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header. It returns false when there is no header, more than one header, a
// different scheme, or an empty or whitespace-containing token.
func BearerToken(h http.Header) (*ProtectedString, bool) {
	values := h.Values("Authorization")
	if len(values) != 1 {
		return nil, false
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(values[0]), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return nil, false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return nil, false
	}
	return NewProtectedString(token), true
}

// UserInfoToHeaders maps a verified identity to the configured headers.
// Unconfigured header names are skipped.
func UserInfoToHeaders(info user.Info, opts *HTTPHeaderOpts) map[string]string {
	res := map[string]string{}
	if opts.UserIDHeader != "" {
		res[opts.UserIDHeader] = info.GetName()
	}
	if opts.GroupsHeader != "" {
		res[opts.GroupsHeader] = strings.Join(info.GetGroups(), ",")
	}
	return res
}

// StripIdentityHeaders removes any caller-supplied identity headers so that
// only the gate can set them.
func StripIdentityHeaders(h http.Header, opts *HTTPHeaderOpts) {
	if opts.UserIDHeader != "" {
		h.Del(opts.UserIDHeader)
	}
	if opts.GroupsHeader != "" {
		h.Del(opts.GroupsHeader)
	}
}

func trimSpaceFromStringSliceElements(slice []string) []string {
	ret := []string{}
	for _, elem := range slice {
		elem = strings.TrimSpace(elem)
		if len(elem) > 0 {
			ret = append(ret, elem)
		}
	}
	return ret
}

// mergeUnique appends the elements of extra that are not already in slice.
func mergeUnique(slice []string, extra []string) []string {
	seen := map[string]struct{}{}
	for _, s := range slice {
		seen[s] = struct{}{}
	}
	for _, e := range extra {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		slice = append(slice, e)
	}
	return slice
}
