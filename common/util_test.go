package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/apiserver/pkg/authentication/user"
)

func TestIsLoopback(t *testing.T) {
	tests := []struct {
		addr   string
		expect bool
	}{
		{addr: "127.0.0.1:8080", expect: true},
		{addr: "127.255.0.3:1", expect: true},
		{addr: "[::1]:443", expect: true},
		{addr: "[::ffff:127.0.0.1]:80", expect: true},
		{addr: "127.0.0.1", expect: true},
		{addr: "10.0.0.1:8080", expect: false},
		{addr: "[fe80::1%eth0]:80", expect: false},
		{addr: "0.0.0.0:80", expect: false},
		{addr: "localhost:80", expect: false},
		{addr: "", expect: false},
		{addr: "garbage", expect: false},
	}
	for _, test := range tests {
		t.Run(test.addr, func(t *testing.T) {
			require.Equal(t, test.expect, IsLoopback(test.addr))
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		token   string
		ok      bool
	}{
		{name: "valid", headers: []string{"Bearer abc.def"}, token: "abc.def", ok: true},
		{name: "lowercase scheme", headers: []string{"bearer abc"}, token: "abc", ok: true},
		{name: "surrounding space", headers: []string{"  Bearer   abc  "}, token: "abc", ok: true},
		{name: "absent"},
		{name: "basic", headers: []string{"Basic abc"}},
		{name: "no token", headers: []string{"Bearer"}},
		{name: "inner space", headers: []string{"Bearer abc def"}},
		{name: "duplicate", headers: []string{"Bearer abc", "Bearer abc"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := http.Header{}
			for _, v := range test.headers {
				h.Add("Authorization", v)
			}
			token, ok := BearerToken(h)
			require.Equal(t, test.ok, ok)
			if ok {
				require.Equal(t, test.token, token.Reveal())
			}
		})
	}
}

func TestProtectedStringHidesToken(t *testing.T) {
	p := NewProtectedString("secret")
	require.Equal(t, "secret", p.Reveal())
	require.Equal(t, "<protected>", p.String())
	b, err := p.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"<protected>"`, string(b))

	var nilP *ProtectedString
	require.Equal(t, "", nilP.Reveal())
}

func TestIdentityHeaders(t *testing.T) {
	opts := &HTTPHeaderOpts{UserIDHeader: "X-Remote-User", GroupsHeader: "X-Remote-Group"}
	info := &user.DefaultInfo{Name: "alice", Groups: []string{"a", "b"}}
	require.Equal(t, map[string]string{
		"X-Remote-User":  "alice",
		"X-Remote-Group": "a,b",
	}, UserInfoToHeaders(info, opts))

	require.Empty(t, UserInfoToHeaders(info, &HTTPHeaderOpts{}))

	h := http.Header{}
	h.Set("X-Remote-User", "admin")
	h.Add("X-Remote-Group", "x")
	h.Set("Other", "kept")
	StripIdentityHeaders(h, opts)
	require.Empty(t, h.Values("X-Remote-User"))
	require.Empty(t, h.Values("X-Remote-Group"))
	require.Equal(t, "kept", h.Get("Other"))
}

func TestReturnMessage(t *testing.T) {
	w := httptest.NewRecorder()
	ReturnMessage(w, http.StatusForbidden, "Forbidden")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	require.Equal(t, "Forbidden", w.Body.String())
}
