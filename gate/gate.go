// Package gate decides, per request, whether a caller may reach the
// protected service.
//
// The checks run in a fixed order: loopback origin, bearer token
// extraction, a single TokenReview against the authority, and finally
// membership of the reviewed username in the allowlist. Every ambiguous or
// failed step ends in a denial.
package gate

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/tokengate/tokengate/authenticator"
	"github.com/tokengate/tokengate/authorizer"
	"github.com/tokengate/tokengate/common"
	"github.com/tokengate/tokengate/metrics"
	"github.com/tokengate/tokengate/svc"
	"k8s.io/apiserver/pkg/authentication/user"
)

type Config struct {
	// Audiences are passed unchanged to every review.
	Audiences []string
	// Authorizer holds the username allowlist.
	Authorizer authorizer.Authorizer
	Client     authenticator.ReviewClient
	// ReviewTimeout bounds a single review. Zero means only the inbound
	// request's context applies.
	ReviewTimeout time.Duration
	// BehindProxy disables the loopback bypass. Set it when requests arrive
	// through an ext-authz proxy, whose own address is then the peer
	// address and says nothing about the original caller.
	BehindProxy bool
	// Metrics is optional.
	Metrics *metrics.Collector
}

// Gate is safe for concurrent use. Nothing in it changes after New.
type Gate struct {
	audiences     []string
	authz         authorizer.Authorizer
	client        authenticator.ReviewClient
	reviewTimeout time.Duration
	behindProxy   bool
	metrics       *metrics.Collector
}

func New(c Config) (*Gate, error) {
	if c.Client == nil {
		return nil, errors.New("gate: review client is required")
	}
	if c.Authorizer == nil {
		return nil, errors.New("gate: authorizer is required")
	}
	return &Gate{
		audiences:     append([]string{}, c.Audiences...),
		authz:         c.Authorizer,
		client:        c.Client,
		reviewTimeout: c.ReviewTimeout,
		behindProxy:   c.BehindProxy,
		metrics:       c.Metrics,
	}, nil
}

// Evaluate decides on r. A non-nil error means no decision was reached
// because r's context ended while the authority was being consulted; it is
// the context's error.
func (g *Gate) Evaluate(r *http.Request) (Decision, error) {
	if !g.behindProxy && common.IsLoopback(r.RemoteAddr) {
		return g.record(allow(nil, "loopback origin")), nil
	}

	token, ok := common.BearerToken(r.Header)
	if !ok {
		return g.record(unauthenticated("missing or malformed bearer token")), nil
	}

	ctx := r.Context()
	res, err := g.review(ctx, token)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Decision{}, ctxErr
		}
		return g.record(internalError(&svc.ReviewError{Err: err})), nil
	}

	username, ok := res.Username()
	if !ok {
		return g.record(unauthenticated("authority did not confirm an identity")), nil
	}

	u := &user.DefaultInfo{Name: username, Groups: res.User.Groups}
	allowed, reason := g.authz.Authorize(u)
	if !allowed {
		return g.record(unauthorized(u, reason)), nil
	}
	return g.record(allow(u, reason)), nil
}

func (g *Gate) review(parent context.Context, token *common.ProtectedString) (*authenticator.ReviewResult, error) {
	ctx := parent
	if g.reviewTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.reviewTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := g.client.Review(ctx, authenticator.ReviewRequest{
		Token:     token,
		Audiences: append([]string{}, g.audiences...),
	})
	if err == nil && res == nil {
		err = errors.New("authority returned no review result")
	}
	// A caller that went away says nothing about the authority.
	if parent.Err() == nil {
		g.metrics.RecordReview(err == nil, time.Since(start))
	}
	return res, err
}

func (g *Gate) record(d Decision) Decision {
	g.metrics.RecordDecision(d.Outcome.String())
	return d
}
