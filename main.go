package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/tevino/abool"
	"github.com/tokengate/tokengate/authenticator"
	"github.com/tokengate/tokengate/authorizer"
	"github.com/tokengate/tokengate/common"
	"github.com/tokengate/tokengate/gate"
	"github.com/tokengate/tokengate/logger"
	"github.com/tokengate/tokengate/metrics"
)

func newReviewClient(c *common.Config) (authenticator.ReviewClient, error) {
	if !common.HasURL(c.ReviewWebhookURL) {
		log.Info("Using the cluster TokenReview API")
		return authenticator.NewKubernetesReviewClient()
	}

	var caBundle []byte
	if c.CABundlePath != "" {
		var err error
		caBundle, err = os.ReadFile(c.CABundlePath)
		if err != nil {
			return nil, fmt.Errorf("could not read CA bundle path %s: %w", c.CABundlePath, err)
		}
	}
	log.Infof("Using TokenReview webhook at %s", c.ReviewWebhookURL)
	return authenticator.NewWebhookReviewClient(
		c.ReviewWebhookURL.String(),
		common.TlsConfig(caBundle).HTTPClient(),
	), nil
}

func main() {

	c, err := common.ParseConfig()
	if err != nil {
		log.Fatalf("Failed to parse configuration: %+v", err)
	}
	if err := logger.SetLevel(c.LogLevel); err != nil {
		log.Fatalf("Failed to set log level: %v", err)
	}
	log.Infof("Config: %+v", c)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Start the readiness listener immediately
	log.Infof("Starting readiness probe at %v", c.ReadinessProbePort)
	isReady := abool.New()
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", c.ReadinessProbePort),
			newReadinessRouter(isReady, reg)))
	}()

	client, err := newReviewClient(c)
	if err != nil {
		log.Fatalf("Error creating review client: %v", err)
	}

	g, err := gate.New(gate.Config{
		Audiences:     c.Audiences,
		Authorizer:    authorizer.NewUsernamesAuthorizer(c.AuthorizedUsernames),
		Client:        client,
		ReviewTimeout: c.ReviewTimeout,
		// In check mode the peer is the ext-authz proxy, not the caller.
		BehindProxy: !common.HasURL(c.UpstreamURL),
		Metrics:     metrics.NewCollector(reg),
	})
	if err != nil {
		log.Fatalf("Error creating gate: %v", err)
	}
	if len(c.AuthorizedUsernames) == 0 {
		log.Warn("No authorized usernames configured, only loopback callers will be allowed")
	}

	s := &server{
		gate: g,
		headerOpts: common.HTTPHeaderOpts{
			UserIDHeader: c.UserIDHeader,
			GroupsHeader: c.GroupsHeader,
		},
	}
	if common.HasURL(c.UpstreamURL) {
		log.Infof("Proxying allowed requests to %s", c.UpstreamURL)
		s.upstream = newUpstreamProxy(c.UpstreamURL)
	} else {
		log.Info("No upstream configured, answering allowed requests with 200")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", c.Hostname, c.Port),
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Setup complete, mark server ready
	isReady.Set()

	log.Infof("Starting server at %v:%v", c.Hostname, c.Port)
	log.Fatal(srv.ListenAndServe())
}
