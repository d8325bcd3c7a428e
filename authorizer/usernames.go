package authorizer

import (
	"k8s.io/apiserver/pkg/authentication/user"
)

type usernamesAuthorizer struct {
	m ruleMatcher
}

// NewUsernamesAuthorizer returns an Authorizer admitting exactly the given
// usernames. An empty allowlist denies everyone.
func NewUsernamesAuthorizer(allowlist []string) Authorizer {
	return &usernamesAuthorizer{
		m: newRuleMatcher(allowlist),
	}
}

func (ua *usernamesAuthorizer) Authorize(user user.Info) (bool, string) {
	if user == nil {
		return false, "no identity"
	}
	return ua.m.Match(user.GetName())
}
