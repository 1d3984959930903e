// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics collects Prometheus counters for the authorization and
session-continuity layer and exposes them for scraping.

A nil *Collector is valid and records nothing, so components can be built
without metrics in tests.
*/
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tradehub"

// Collector records the outcomes of the request authorization pipeline.
type Collector struct {
	httpResponses    *prometheus.CounterVec
	originRejections prometheus.Counter
	authFailures     *prometheus.CounterVec
	sessionRefreshes *prometheus.CounterVec
	cookiesIssued    *prometheus.CounterVec
	onboardingWrites *prometheus.CounterVec
	mirrorFailures   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_responses_total",
			Help:      "HTTP responses by status code.",
		}, []string{"status_code"}),
		originRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "origin_rejections_total",
			Help:      "Mutating requests rejected because of their Origin header.",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Token authentication failures by internal reason.",
		}, []string{"reason"}),
		sessionRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_refreshes_total",
			Help:      "Session refresh attempts by outcome.",
		}, []string{"outcome"}),
		cookiesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_cookies_issued_total",
			Help:      "Session cookies written by issuance kind.",
		}, []string{"kind"}),
		onboardingWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "onboarding_writes_total",
			Help:      "Onboarding profile writes by field and outcome.",
		}, []string{"field", "outcome"}),
		mirrorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_mirror_failures_total",
			Help:      "Profile fields that could not be mirrored into identity metadata.",
		}, []string{"field"}),
	}

	reg.MustRegister(
		c.httpResponses,
		c.originRejections,
		c.authFailures,
		c.sessionRefreshes,
		c.cookiesIssued,
		c.onboardingWrites,
		c.mirrorFailures,
	)

	return c
}

// RecordHTTPStatus counts one response.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	if c == nil {
		return
	}
	c.httpResponses.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordOriginRejected counts one 403 from the origin gate.
func (c *Collector) RecordOriginRejected() {
	if c == nil {
		return
	}
	c.originRejections.Inc()
}

// RecordAuthFailure counts one authentication failure.
func (c *Collector) RecordAuthFailure(reason string) {
	if c == nil {
		return
	}
	c.authFailures.WithLabelValues(reason).Inc()
}

// RecordSessionRefresh counts one refresher decision.
func (c *Collector) RecordSessionRefresh(outcome string) {
	if c == nil {
		return
	}
	c.sessionRefreshes.WithLabelValues(outcome).Inc()
}

// RecordCookieIssued counts one session cookie write.
func (c *Collector) RecordCookieIssued(kind string) {
	if c == nil {
		return
	}
	c.cookiesIssued.WithLabelValues(kind).Inc()
}

// RecordOnboardingWrite counts one username or interests write attempt.
func (c *Collector) RecordOnboardingWrite(field, outcome string) {
	if c == nil {
		return
	}
	c.onboardingWrites.WithLabelValues(field, outcome).Inc()
}

// RecordMirrorFailure counts one failed metadata mirror.
func (c *Collector) RecordMirrorFailure(field string) {
	if c == nil {
		return
	}
	c.mirrorFailures.WithLabelValues(field).Inc()
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
