package authorizer

import (
	"fmt"

	"k8s.io/apiserver/pkg/authentication/user"
)

// Authorizer decides if an authenticated identity is allowed through.
// The interface draws some inspiration from Kubernetes' interface:
// https://github.com/kubernetes/apiserver/blob/master/pkg/authorization/authorizer/interfaces.go#L67-L72
type Authorizer interface {
	Authorize(user user.Info) (allowed bool, reason string)
}

// ruleMatcher matches a username against a fixed allowlist. It is never
// mutated after construction.
type ruleMatcher struct {
	from     string
	allowAny map[string]struct{}
}

func newRuleMatcher(allowlist []string) ruleMatcher {
	m := map[string]struct{}{}
	for _, u := range allowlist {
		m[u] = struct{}{}
	}
	return ruleMatcher{
		from:     fmt.Sprintf("%v", allowlist),
		allowAny: m,
	}
}

// Match matches a username to the allowlist.
//
// It also returns a reason for the verdict.
func (rm ruleMatcher) Match(username string) (bool, string) {
	if _, ok := rm.allowAny[username]; ok {
		return true, fmt.Sprintf("username %q is allowlisted", username)
	}
	return false, fmt.Sprintf("username %q is not one of %v", username, rm.from)
}
