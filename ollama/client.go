// Package ollama discovers a locally running Ollama server and the models it
// has pulled.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/errgroup"

	"fitchat/metrics"
)

const (
	// DefaultEndpoint is where a local Ollama server listens unless told otherwise.
	DefaultEndpoint = "http://localhost:11434"
	// ProbeTimeout bounds a single probe.
	ProbeTimeout = 5 * time.Second

	maxParallelProbes = 4
)

// ProbeResult reports whether an Ollama server answered and which models it has.
type ProbeResult struct {
	Endpoint  string
	Reachable bool
	Models    []string
	Message   string
}

// Prober queries Ollama's model-listing endpoint.
type Prober struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewProber returns a prober with the default timeout.
func NewProber() *Prober {
	return &Prober{
		HTTPClient: &http.Client{},
		Timeout:    ProbeTimeout,
		Logger:     slog.Default(),
	}
}

// Probe checks endpoint with a default prober.
func Probe(ctx context.Context, endpoint string) ProbeResult {
	return NewProber().Probe(ctx, endpoint)
}

// ListModels returns the models pulled on endpoint. The list is empty when
// the server cannot be reached.
func ListModels(ctx context.Context, endpoint string) []string {
	return Probe(ctx, endpoint).Models
}

// ProbeAll checks several endpoints concurrently. Results keep the order of
// endpoints.
func ProbeAll(ctx context.Context, endpoints []string) []ProbeResult {
	return NewProber().ProbeAll(ctx, endpoints)
}

// Probe lists the models on endpoint. It never returns an error: every
// failure is described by Message with Reachable set to false.
func (p *Prober) Probe(ctx context.Context, endpoint string) ProbeResult {
	endpoint = normalizeEndpoint(endpoint)
	result := ProbeResult{Endpoint: endpoint, Models: []string{}}

	base, err := url.Parse(endpoint)
	if err != nil || base.Scheme == "" || base.Host == "" {
		if err == nil {
			err = fmt.Errorf("invalid endpoint %q", endpoint)
		}
		result.Message = "error: " + err.Error()
		metrics.ProbeResults.WithLabelValues("error").Inc()
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	client, rec := p.recordingClient()
	resp, err := api.NewClient(base, client).List(ctx)
	if err != nil {
		label := classify(err, &result)
		metrics.ProbeResults.WithLabelValues(label).Inc()
		p.logger().Debug("ollama probe failed", "endpoint", endpoint, "error", err)
		return result
	}

	// The api client accepts any status below 400; only 200 is an answer.
	if rec.status != http.StatusOK {
		result.Message = fmt.Sprintf("server responded with status %d", rec.status)
		metrics.ProbeResults.WithLabelValues("status").Inc()
		p.logger().Debug("ollama probe failed", "endpoint", endpoint, "status", rec.status)
		return result
	}

	result.Reachable = true
	for _, m := range resp.Models {
		result.Models = append(result.Models, m.Name)
	}

	if len(result.Models) == 0 {
		result.Message = "connected but no models found; pull a model to proceed (e.g. ollama pull llama2)"
		metrics.ProbeResults.WithLabelValues("empty").Inc()
		return result
	}

	result.Message = fmt.Sprintf("connected successfully; found %d model(s)", len(result.Models))
	metrics.ProbeResults.WithLabelValues("ok").Inc()
	p.logger().Debug("ollama probe succeeded", "endpoint", endpoint, "models", len(result.Models))
	return result
}

// ProbeAll checks several endpoints concurrently.
func (p *Prober) ProbeAll(ctx context.Context, endpoints []string) []ProbeResult {
	results := make([]ProbeResult, len(endpoints))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelProbes)
	for i, endpoint := range endpoints {
		g.Go(func() error {
			results[i] = p.Probe(ctx, endpoint)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// classify fills in the failure message and returns the metric label.
func classify(err error, result *ProbeResult) string {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		result.Message = fmt.Sprintf("server responded with status %d", statusErr.StatusCode)
		return "status"
	}

	var authErr api.AuthorizationError
	if errors.As(err, &authErr) {
		result.Message = fmt.Sprintf("server responded with status %d", authErr.StatusCode)
		return "status"
	}

	var opErr *net.OpError
	if (errors.As(err, &opErr) && opErr.Op == "dial") || strings.Contains(err.Error(), "connection refused") {
		result.Message = "cannot connect to the Ollama server; ensure it is running (start it with: ollama serve)"
		return "unreachable"
	}

	result.Message = "error: " + err.Error()
	return "error"
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return DefaultEndpoint
	}
	return endpoint
}

func (p *Prober) timeout() time.Duration {
	if p.Timeout <= 0 {
		return ProbeTimeout
	}
	return p.Timeout
}

func (p *Prober) httpClient() *http.Client {
	if p.HTTPClient == nil {
		return http.DefaultClient
	}
	return p.HTTPClient
}

// statusRecorder keeps the status of the last response it carried, which is
// the final one when redirects are followed.
type statusRecorder struct {
	next   http.RoundTripper
	status int
}

func (r *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if resp != nil {
		r.status = resp.StatusCode
	}
	return resp, err
}

// recordingClient returns a copy of the prober's HTTP client whose transport
// records response statuses.
func (p *Prober) recordingClient() (*http.Client, *statusRecorder) {
	base := p.httpClient()
	rec := &statusRecorder{next: base.Transport}
	if rec.next == nil {
		rec.next = http.DefaultTransport
	}
	return &http.Client{
		Transport:     rec,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}, rec
}

func (p *Prober) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
