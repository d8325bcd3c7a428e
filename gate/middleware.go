package gate

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tokengate/tokengate/common"
	"github.com/tokengate/tokengate/logger"
)

// Middleware runs the gate in front of handler. Allowed requests reach
// handler with the identity headers in opts set from the reviewed user;
// caller-supplied values of those headers are always dropped.
//
// Denials are answered with 401 or 403, failed reviews with a generic 500.
// A request that ends while the authority is consulted gets no decision and
// is answered with 504 if its deadline passed, or 503 otherwise. It is never
// answered with a 2xx.
func Middleware(g *Gate, opts *common.HTTPHeaderOpts) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logger.ForRequest(r)
			common.StripIdentityHeaders(r.Header, opts)

			d, err := g.Evaluate(r)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					logger.Warn("Request deadline passed before a decision")
					common.ReturnMessage(w, http.StatusGatewayTimeout, http.StatusText(http.StatusGatewayTimeout))
					return
				}
				logger.Debugf("Request cancelled before a decision: %v", err)
				common.ReturnMessage(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
				return
			}

			switch d.Outcome {
			case Allow:
				if d.User != nil {
					logger = logger.WithField("user", d.User.GetName())
					for k, v := range common.UserInfoToHeaders(d.User, opts) {
						r.Header.Set(k, v)
					}
				}
				logger.Debugf("Request allowed: %s", d.Reason)
				handler.ServeHTTP(w, r)
			case Unauthenticated:
				logger.Infof("Request unauthenticated: %s", d.Reason)
				w.Header().Set("WWW-Authenticate", "Bearer")
				common.ReturnMessage(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
			case Unauthorized:
				logger.WithField("user", d.User.GetName()).Infof("Request unauthorized: %s", d.Reason)
				common.ReturnMessage(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
			default:
				logger.Errorf("Error authenticating request: %v", d.Err)
				common.ReturnMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
		})
	}
}
