package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// SessionRequest carries what the hosted checkout needs to start a subscription.
type SessionRequest struct {
	PriceRef       string
	SuccessURL     string
	CancelURL      string
	Locale         string
	Metadata       map[string]string
	IdempotencyKey string
}

// Session is the hosted checkout session the browser is sent to.
type Session struct {
	ID  string
	URL string
}

// SessionCreator starts hosted checkout sessions.
type SessionCreator interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
}

type stripeSessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeSessions creates Stripe Checkout sessions in subscription mode.
type StripeSessions struct {
	api stripeSessionAPI
}

// NewStripeSessions builds a session creator from a Stripe secret key.
func NewStripeSessions(secretKey string, backends *stripe.Backends) (*StripeSessions, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, errors.New("checkout: stripe secret key is required")
	}
	sc := client.New(secretKey, backends)
	return &StripeSessions{api: sc.CheckoutSessions}, nil
}

// CreateSession implements SessionCreator.
func (s *StripeSessions) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if s == nil || s.api == nil {
		return Session{}, errors.New("checkout: stripe sessions not configured")
	}
	ref := strings.TrimSpace(req.PriceRef)
	if ref == "" {
		return Session{}, ErrMissingReference
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(strings.TrimSpace(req.SuccessURL)),
		CancelURL:  stripe.String(strings.TrimSpace(req.CancelURL)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(ref),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(ensureIdempotencyKey(req.IdempotencyKey))
	if locale := stripeLocale(req.Locale); locale != "" {
		params.Locale = stripe.String(locale)
	}
	if len(req.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			params.Metadata[k] = v
		}
	}

	sess, err := s.api.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("checkout: create session: %w", err)
	}
	if strings.TrimSpace(sess.URL) == "" {
		return Session{}, fmt.Errorf("checkout: session %s has no redirect url", sess.ID)
	}
	return Session{ID: sess.ID, URL: sess.URL}, nil
}

// ProviderMessage extracts the message the payment provider reported, falling
// back to the error text.
func ProviderMessage(err error) string {
	if err == nil {
		return ""
	}
	var serr *stripe.Error
	if errors.As(err, &serr) && strings.TrimSpace(serr.Msg) != "" {
		return serr.Msg
	}
	return err.Error()
}

func ensureIdempotencyKey(key string) string {
	key = strings.TrimSpace(key)
	if key != "" {
		return key
	}
	return "pawbox_" + uuid.NewString()
}

func stripeLocale(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "":
		return ""
	case "en-gb", "en_gb":
		return "en-GB"
	}
	if i := strings.IndexAny(lang, "-_"); i != -1 {
		lang = lang[:i]
	}
	return lang
}
