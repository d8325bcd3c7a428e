package authenticator

import (
	"context"

	"github.com/tokengate/tokengate/common"
	authenticationv1 "k8s.io/api/authentication/v1"
)

// ReviewClient asks an external authority whether a bearer token is valid
// for the given audiences. Implementations must honour ctx cancellation and
// must not retry or cache on behalf of the caller.
type ReviewClient interface {
	Review(ctx context.Context, req ReviewRequest) (*ReviewResult, error)
}

// ReviewRequest is built fresh for every evaluated request.
type ReviewRequest struct {
	Token     *common.ProtectedString
	Audiences []string
}

// ReviewResult is the authority's verdict. A nil field means the authority
// did not set it, which is not the same as an explicit false or "".
type ReviewResult struct {
	Authenticated *bool
	User          *UserInfo
}

type UserInfo struct {
	Username *string
	Groups   []string
}

// Username returns the reviewed username, if the authority affirmed
// authentication and named one.
func (r *ReviewResult) Username() (string, bool) {
	if r == nil || r.Authenticated == nil || !*r.Authenticated {
		return "", false
	}
	if r.User == nil || r.User.Username == nil {
		return "", false
	}
	return *r.User.Username, true
}

func newTokenReview(req ReviewRequest) *authenticationv1.TokenReview {
	return &authenticationv1.TokenReview{
		Spec: authenticationv1.TokenReviewSpec{
			Token:     req.Token.Reveal(),
			Audiences: append([]string(nil), req.Audiences...),
		},
	}
}

// resultFromStatus converts the typed client status. The typed API has no
// optional fields, so its zero values map to "absent".
func resultFromStatus(status authenticationv1.TokenReviewStatus) *ReviewResult {
	authenticated := status.Authenticated
	res := &ReviewResult{Authenticated: &authenticated}
	if status.User.Username != "" || len(status.User.Groups) > 0 {
		res.User = &UserInfo{Groups: status.User.Groups}
		if status.User.Username != "" {
			username := status.User.Username
			res.User.Username = &username
		}
	}
	return res
}
