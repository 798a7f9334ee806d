package checkout

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"pawbox.co.uk/pawbox-web/internal/catalog"
)

const (
	// PlaceholderPublishableKey ships in sample env files and counts as unset.
	PlaceholderPublishableKey = "pk_test_replace_me"
	// PlaceholderSecretKey is the server-side equivalent.
	PlaceholderSecretKey = "sk_test_replace_me"

	notConfiguredNotice = "Demo: configure the Stripe publishable key and price references to enable checkout."
)

const instrumentationName = "pawbox.co.uk/pawbox-web/internal/checkout"

var tracer = otel.Tracer(instrumentationName)

// ErrMissingReference is returned when no price reference exists for a plan and weight.
var ErrMissingReference = errors.New("checkout: missing price reference")

// Config holds the hand-off configuration. Build it once at start-up.
type Config struct {
	PublishableKey string
	SecretKey      string
	// References maps ReferenceKey(plan, bracket) to a Stripe price id.
	References map[string]string
}

// ReferenceKey derives the lookup key for a plan and weight bracket.
func ReferenceKey(planID string, bracket catalog.Bracket) string {
	return planID + "_" + string(bracket)
}

// DefaultReferences returns the placeholder price references, one per plan and bracket.
func DefaultReferences(cat *catalog.Catalog) map[string]string {
	refs := map[string]string{}
	for _, p := range cat.Plans() {
		for _, b := range catalog.Brackets() {
			refs[ReferenceKey(p.ID, b)] = "price_" + p.ID + "_" + string(b) + "_replace"
		}
	}
	return refs
}

// Kind classifies a hand-off result.
type Kind int

const (
	// NotConfigured means no external call was attempted.
	NotConfigured Kind = iota
	// Ready means a hosted session exists and the browser should be redirected.
	Ready
	// Failed means the hosted checkout reported an error.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "not_configured"
	}
}

// Result is the outcome of Begin. Notice is set exactly when Kind is not Ready.
type Result struct {
	Kind        Kind
	RedirectURL string
	SessionID   string
	Reference   string
	Notice      string
	// Missing names the configuration items that were absent for NotConfigured.
	Missing []string
}

// Request identifies what to check out and where the provider returns the visitor.
type Request struct {
	PlanID     string
	Bracket    catalog.Bracket
	SuccessURL string
	CancelURL  string
	Locale     string
}

// Handoff gates the hosted checkout behind complete configuration.
type Handoff struct {
	cfg      Config
	sessions SessionCreator
	logger   *zap.Logger
	results  metric.Int64Counter
}

// NewHandoff wires a hand-off. sessions may be nil when Stripe is not configured.
func NewHandoff(cfg Config, sessions SessionCreator, logger *zap.Logger) *Handoff {
	if logger == nil {
		logger = zap.NewNop()
	}
	refs := make(map[string]string, len(cfg.References))
	for k, v := range cfg.References {
		refs[k] = strings.TrimSpace(v)
	}
	cfg.References = refs
	cfg.PublishableKey = strings.TrimSpace(cfg.PublishableKey)
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)

	h := &Handoff{cfg: cfg, sessions: sessions, logger: logger}
	results, err := otel.GetMeterProvider().Meter(instrumentationName).Int64Counter(
		"checkout.handoff.results",
		metric.WithDescription("Checkout hand-off attempts by result"),
	)
	if err != nil {
		logger.Warn("checkout: unable to register result metric", zap.Error(err))
	} else {
		h.results = results
	}
	return h
}

// Reference returns the price reference for a plan and bracket.
func (h *Handoff) Reference(planID string, bracket catalog.Bracket) (string, bool) {
	ref, ok := h.cfg.References[ReferenceKey(planID, bracket)]
	return ref, ok && ref != ""
}

// Configured reports whether the hand-off can ever reach the provider.
func (h *Handoff) Configured() bool {
	return len(h.missingKeys()) == 0
}

// Begin starts the hosted checkout for req. It never retries.
func (h *Handoff) Begin(ctx context.Context, req Request) Result {
	key := ReferenceKey(req.PlanID, req.Bracket)
	missing := h.missingKeys()
	ref, ok := h.Reference(req.PlanID, req.Bracket)
	if !ok {
		missing = append(missing, "price:"+key)
	}
	if len(missing) > 0 {
		h.logger.Info("checkout.handoff.not_configured",
			zap.String("reference_key", key),
			zap.Strings("missing", missing),
		)
		h.record(ctx, NotConfigured)
		return Result{Kind: NotConfigured, Notice: notConfiguredNotice, Missing: missing}
	}

	ctx, span := tracer.Start(ctx, "checkout.CreateSession")
	span.SetAttributes(attribute.String("checkout.reference_key", key))
	defer span.End()

	sess, err := h.sessions.CreateSession(ctx, SessionRequest{
		PriceRef:   ref,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		Locale:     req.Locale,
		Metadata: map[string]string{
			"plan":   req.PlanID,
			"weight": string(req.Bracket),
		},
	})
	if err != nil {
		h.logger.Warn("checkout.handoff.failed",
			zap.String("reference_key", key),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "create session failed")
		h.record(ctx, Failed)
		return Result{Kind: Failed, Reference: ref, Notice: ProviderMessage(err)}
	}

	h.logger.Info("checkout.handoff.ready",
		zap.String("reference_key", key),
		zap.String("session_id", sess.ID),
	)
	h.record(ctx, Ready)
	return Result{Kind: Ready, RedirectURL: sess.URL, SessionID: sess.ID, Reference: ref}
}

func (h *Handoff) record(ctx context.Context, kind Kind) {
	if h.results == nil {
		return
	}
	h.results.Add(ctx, 1, metric.WithAttributes(attribute.String("result", kind.String())))
}

func (h *Handoff) missingKeys() []string {
	var missing []string
	if isUnset(h.cfg.PublishableKey, PlaceholderPublishableKey) {
		missing = append(missing, "publishable_key")
	}
	if isUnset(h.cfg.SecretKey, PlaceholderSecretKey) || h.sessions == nil {
		missing = append(missing, "secret_key")
	}
	return missing
}

func isUnset(v, placeholder string) bool {
	return v == "" || v == placeholder
}
