package interactions

import (
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-interactions/core"
	"github.com/goliatone/go-interactions/delivery"
	"github.com/goliatone/go-interactions/inbound"
	"github.com/goliatone/go-interactions/verify"
)

// Option customizes adapter construction.
type Option func(*adapterBuilder)

type adapterBuilder struct {
	runtimeConfig   core.Config
	loggerProvider  glog.LoggerProvider
	logger          glog.Logger
	metricsRecorder core.MetricsRecorder
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver

	httpClient   delivery.HTTPDoer
	channel      inbound.DeliveryChannel
	verifier     inbound.Verifier
	secretSource verify.SecretSource
	normalize    inbound.NormalizeFunc

	now          func() time.Time
	replayWindow time.Duration

	syncResponseTimeoutMS *int
	lateResponseFallback  *bool
}

func defaultAdapterBuilder() adapterBuilder {
	loggerProvider, logger := glog.Resolve("interactions", nil, nil)
	return adapterBuilder{
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: core.NopMetricsRecorder{},
		configProvider:  core.NewCfgxConfigProvider(nil),
		optionsResolver: core.GoOptionsResolver{},
	}
}

// WithConfig supplies runtime configuration overrides. Non-zero fields take
// precedence over loaded and default values.
func WithConfig(cfg core.Config) Option {
	return func(b *adapterBuilder) {
		b.runtimeConfig = cfg
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *adapterBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *adapterBuilder) {
		b.optionsResolver = resolver
	}
}

func WithLogger(logger glog.Logger) Option {
	return func(b *adapterBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider glog.LoggerProvider) Option {
	return func(b *adapterBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *adapterBuilder) {
		if recorder != nil {
			b.metricsRecorder = recorder
		}
	}
}

// WithHTTPClient sets the client used for out-of-band deliveries.
func WithHTTPClient(client delivery.HTTPDoer) Option {
	return func(b *adapterBuilder) {
		b.httpClient = client
	}
}

// WithDeliveryChannel replaces the out-of-band delivery side entirely,
// bypassing the default HTTP client.
func WithDeliveryChannel(channel inbound.DeliveryChannel) Option {
	return func(b *adapterBuilder) {
		b.channel = channel
	}
}

// WithVerifier replaces the request verifier. The signing secret is ignored
// for verification when this is set.
func WithVerifier(verifier inbound.Verifier) Option {
	return func(b *adapterBuilder) {
		b.verifier = verifier
	}
}

// WithSecretSource verifies signatures against the secrets a source serves
// instead of the configured signing secret, enabling rotation without
// restarts. The configured secret still has to be present for validation.
func WithSecretSource(source verify.SecretSource) Option {
	return func(b *adapterBuilder) {
		b.secretSource = source
	}
}

func WithNormalizer(normalize inbound.NormalizeFunc) Option {
	return func(b *adapterBuilder) {
		b.normalize = normalize
	}
}

// WithSyncResponseTimeout overrides the synchronous response deadline. The
// resolved value still has to pass validation against the platform ceiling.
func WithSyncResponseTimeout(timeout time.Duration) Option {
	return func(b *adapterBuilder) {
		ms := int(timeout / time.Millisecond)
		b.syncResponseTimeoutMS = &ms
	}
}

// WithLateResponseFallback toggles out-of-band delivery of results that
// settle after the synchronous deadline.
func WithLateResponseFallback(enabled bool) Option {
	return func(b *adapterBuilder) {
		b.lateResponseFallback = &enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *adapterBuilder) {
		b.now = now
	}
}

// WithReplayWindow overrides the timestamp tolerance used during
// verification.
func WithReplayWindow(window time.Duration) Option {
	return func(b *adapterBuilder) {
		b.replayWindow = window
	}
}
