// Package chat is the entry point for applications: a Client bound to one
// provider that keeps the conversation and answers questions about the user's
// fitness data.
//
// A Client is created once per conversation with New, which validates the
// configuration and selects the provider adapter. Each call to Chat sends the
// question, the user's data and the recent history, then records the exchange
// if (and only if) the provider answered.
//
//	c, err := chat.New(ctx, provider.Config{Provider: provider.Anthropic, APIKey: key})
//	if err != nil {
//	    return err
//	}
//	reply, err := c.Chat(ctx, "How did I sleep last week?", sleepSummary)
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fitchat/metrics"
	"fitchat/model"
	"fitchat/ollama"
	"fitchat/provider"
)

// Client is a conversation with one provider.
//
// A Client handles one Chat call at a time; concurrent calls on the same
// Client are not supported.
type Client struct {
	conn    *provider.Connection
	history *model.History
	logger  *slog.Logger
}

type options struct {
	transports   *provider.Transports
	sampling     provider.Sampling
	logger       *slog.Logger
	historyLimit int
}

// Option configures a Client.
type Option func(*options)

// WithTransports replaces the SDK clients used to reach providers.
func WithTransports(t provider.Transports) Option {
	return func(o *options) {
		o.transports = &t
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSampling overrides the temperature and output token limit sent on
// every call.
func WithSampling(s provider.Sampling) Option {
	return func(o *options) {
		o.sampling = s
	}
}

// WithHistoryLimit caps the stored conversation at pairs exchanges. By
// default the whole conversation is kept until ClearHistory.
func WithHistoryLimit(pairs int) Option {
	return func(o *options) {
		o.historyLimit = pairs
	}
}

// New validates cfg and connects to its provider. Configuration problems are
// reported here, before any request is sent.
func New(ctx context.Context, cfg provider.Config, opts ...Option) (*Client, error) {
	o := options{
		sampling: provider.DefaultSampling(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	f := provider.NewFactory(o.logger)
	f.Sampling = o.sampling
	if o.transports != nil {
		f.Transports = *o.transports
	}

	conn, err := f.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:    conn,
		history: model.NewHistory(o.historyLimit),
		logger:  o.logger,
	}, nil
}

// Chat sends message with the user's data in dataContext and returns the
// provider's reply. dataContext may be empty.
//
// On success the question and reply are appended to the history as one
// exchange. On failure the history is unchanged and the error is a
// *provider.CallError.
func (c *Client) Chat(ctx context.Context, message, dataContext string) (string, error) {
	id := c.conn.Descriptor.ID
	requestID := uuid.New().String()
	log := c.logger.With(
		"provider", string(id),
		"model", c.Model(),
		"conversation", c.history.ID(),
		"request", requestID,
	)

	start := time.Now()
	reply, err := c.conn.Adapter.Send(ctx, provider.Request{
		Message: message,
		Context: dataContext,
		History: c.history.Recent(provider.HistoryWindow),
	})
	metrics.ChatDuration.WithLabelValues(string(id)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ChatRequests.WithLabelValues(string(id), "error").Inc()
		log.Error("chat request failed", "error", err)
		return "", provider.NewCallError(c.conn.Descriptor, err)
	}

	c.history.Append(message, reply)
	metrics.ChatRequests.WithLabelValues(string(id), "success").Inc()
	log.Debug("chat request completed", "turns", c.history.Len())

	return reply, nil
}

// ClearHistory forgets the conversation.
func (c *Client) ClearHistory() {
	c.history.Clear()
	c.logger.Debug("conversation history cleared", "provider", string(c.conn.Descriptor.ID))
}

// History returns a copy of the conversation so far.
func (c *Client) History() []model.Turn {
	return c.history.Turns()
}

// Provider returns the descriptor of the connected provider.
func (c *Client) Provider() provider.Descriptor {
	return c.conn.Descriptor
}

// Model returns the model requests are sent to. For Azure that is the
// deployment name, whatever model was configured.
func (c *Client) Model() string {
	if c.conn.Deployment != "" {
		return c.conn.Deployment
	}
	return c.conn.Model
}

// Endpoint returns the resolved base URL of the provider.
func (c *Client) Endpoint() string {
	return c.conn.BaseURL
}

// ListProviders returns every supported provider keyed by id.
func ListProviders() map[provider.ProviderID]provider.Descriptor {
	return provider.ListProviders()
}

// ProbeLocalServer checks whether an Ollama server answers at endpoint and
// lists its models. An empty endpoint selects the default local address.
func ProbeLocalServer(ctx context.Context, endpoint string) ollama.ProbeResult {
	return ollama.Probe(ctx, endpoint)
}

// ListLocalModels returns the models pulled on the Ollama server at endpoint.
func ListLocalModels(ctx context.Context, endpoint string) []string {
	return ollama.ListModels(ctx, endpoint)
}
