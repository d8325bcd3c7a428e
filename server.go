package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tevino/abool"
	"github.com/tokengate/tokengate/common"
	"github.com/tokengate/tokengate/gate"
	"github.com/tokengate/tokengate/logger"
)

type server struct {
	gate       *gate.Gate
	headerOpts common.HTTPHeaderOpts
	// upstream receives allowed requests. When nil the server only answers
	// whether a request is allowed.
	upstream http.Handler
}

func (s *server) handler() http.Handler {
	next := s.upstream
	if next == nil {
		next = http.HandlerFunc(s.verify)
	}

	router := mux.NewRouter()
	router.PathPrefix("/").Handler(gate.Middleware(s.gate, &s.headerOpts)(next))

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(router)
}

// verify is the check-only endpoint: it is reached only by allowed requests
// and echoes the identity headers set by the gate, so an ext-authz proxy can
// forward them.
func (s *server) verify(w http.ResponseWriter, r *http.Request) {
	for _, h := range []string{s.headerOpts.UserIDHeader, s.headerOpts.GroupsHeader} {
		if h == "" {
			continue
		}
		if v := r.Header.Get(h); v != "" {
			w.Header().Set(h, v)
		}
	}
	common.ReturnMessage(w, http.StatusOK, "OK")
}

func newUpstreamProxy(target *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.ForRequest(r).Errorf("Error proxying request upstream: %v", err)
		common.ReturnMessage(w, http.StatusBadGateway, http.StatusText(http.StatusBadGateway))
	}
	return proxy
}

// readiness is the handler that checks if the gate is ready for serving
// requests, i.e. its review client has been set up.
func readiness(isReady *abool.AtomicBool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := http.StatusOK
		if !isReady.IsSet() {
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
	}
}

func newReadinessRouter(isReady *abool.AtomicBool, gatherer prometheus.Gatherer) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.PathPrefix("/").Handler(readiness(isReady))
	return router
}
