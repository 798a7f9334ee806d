package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"

	"pawbox.co.uk/pawbox-web/internal/catalog"
)

type fakeSessions struct {
	calls   int
	lastReq SessionRequest
	session Session
	err     error
}

func (f *fakeSessions) CreateSession(_ context.Context, req SessionRequest) (Session, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return Session{}, f.err
	}
	return f.session, nil
}

func testReferences(t *testing.T) map[string]string {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	refs := DefaultReferences(cat)
	require.Len(t, refs, 9)
	return refs
}

func allPairs() []Request {
	var out []Request
	for _, plan := range []string{"basic", "essential", "premium", "unknown"} {
		for _, b := range append(catalog.Brackets(), catalog.Bracket("huge")) {
			out = append(out, Request{PlanID: plan, Bracket: b})
		}
	}
	return out
}

func TestReferenceKey(t *testing.T) {
	require.Equal(t, "essential_medium", ReferenceKey("essential", catalog.BracketMedium))
}

func TestBeginPlaceholderKeyNeverCallsProvider(t *testing.T) {
	for _, key := range []string{"", PlaceholderPublishableKey, "  "} {
		fake := &fakeSessions{session: Session{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1"}}
		h := NewHandoff(Config{PublishableKey: key, SecretKey: "sk_test_live", References: testReferences(t)}, fake, nil)
		require.False(t, h.Configured())

		for _, req := range allPairs() {
			res := h.Begin(context.Background(), req)
			require.Equal(t, NotConfigured, res.Kind, "%s/%s", req.PlanID, req.Bracket)
			require.NotEmpty(t, res.Notice)
			require.Empty(t, res.RedirectURL)
			require.Contains(t, res.Missing, "publishable_key")
		}
		require.Zero(t, fake.calls)
	}
}

func TestBeginMissingReferenceMatchesUnconfigured(t *testing.T) {
	refs := testReferences(t)
	delete(refs, "premium_large")
	fake := &fakeSessions{session: Session{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1"}}
	h := NewHandoff(Config{PublishableKey: "pk_test_real", SecretKey: "sk_test_real", References: refs}, fake, nil)

	unconfigured := NewHandoff(Config{PublishableKey: PlaceholderPublishableKey, SecretKey: "sk_test_real", References: refs}, fake, nil)
	want := unconfigured.Begin(context.Background(), Request{PlanID: "basic", Bracket: catalog.BracketSmall})

	for _, req := range []Request{
		{PlanID: "premium", Bracket: catalog.BracketLarge},
		{PlanID: "unknown", Bracket: catalog.BracketSmall},
		{PlanID: "basic", Bracket: catalog.Bracket("huge")},
	} {
		res := h.Begin(context.Background(), req)
		require.Equal(t, want.Kind, res.Kind)
		require.Equal(t, want.Notice, res.Notice)
		require.Equal(t, []string{"price:" + ReferenceKey(req.PlanID, req.Bracket)}, res.Missing)
	}
	require.Zero(t, fake.calls)
}

func TestBeginEmptyReferenceCountsAsMissing(t *testing.T) {
	refs := testReferences(t)
	refs["basic_small"] = "  "
	fake := &fakeSessions{}
	h := NewHandoff(Config{PublishableKey: "pk_test_real", SecretKey: "sk_test_real", References: refs}, fake, nil)
	res := h.Begin(context.Background(), Request{PlanID: "basic", Bracket: catalog.BracketSmall})
	require.Equal(t, NotConfigured, res.Kind)
	require.Zero(t, fake.calls)
}

func TestBeginWithoutSecretKeyOrCreator(t *testing.T) {
	refs := testReferences(t)
	fake := &fakeSessions{}
	for _, h := range []*Handoff{
		NewHandoff(Config{PublishableKey: "pk_test_real", SecretKey: PlaceholderSecretKey, References: refs}, fake, nil),
		NewHandoff(Config{PublishableKey: "pk_test_real", SecretKey: "sk_test_real", References: refs}, nil, nil),
	} {
		res := h.Begin(context.Background(), Request{PlanID: "basic", Bracket: catalog.BracketSmall})
		require.Equal(t, NotConfigured, res.Kind)
		require.Equal(t, []string{"secret_key"}, res.Missing)
	}
	require.Zero(t, fake.calls)
}

func TestBeginReadyPassesReturnLocations(t *testing.T) {
	fake := &fakeSessions{session: Session{ID: "cs_test_123", URL: "https://checkout.stripe.com/c/pay/cs_test_123"}}
	h := NewHandoff(Config{PublishableKey: "pk_test_real", SecretKey: "sk_test_real", References: testReferences(t)}, fake, nil)
	require.True(t, h.Configured())

	res := h.Begin(context.Background(), Request{
		PlanID:     "essential",
		Bracket:    catalog.BracketMedium,
		SuccessURL: "https://pawbox.co.uk/?status=success",
		CancelURL:  "https://pawbox.co.uk/?status=cancel",
		Locale:     "en",
	})
	require.Equal(t, Ready, res.Kind)
	require.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", res.RedirectURL)
	require.Empty(t, res.Notice)
	require.Equal(t, 1, fake.calls)
	require.Equal(t, "price_essential_medium_replace", fake.lastReq.PriceRef)
	require.Equal(t, "https://pawbox.co.uk/?status=success", fake.lastReq.SuccessURL)
	require.Equal(t, "https://pawbox.co.uk/?status=cancel", fake.lastReq.CancelURL)
	require.Equal(t, map[string]string{"plan": "essential", "weight": "medium"}, fake.lastReq.Metadata)
}

func TestBeginSurfacesProviderErrorOnce(t *testing.T) {
	stripeErr := &stripe.Error{Msg: "No such price: 'price_essential_medium_replace'"}
	fake := &fakeSessions{err: stripeErr}
	h := NewHandoff(Config{PublishableKey: "pk_test_real", SecretKey: "sk_test_real", References: testReferences(t)}, fake, nil)

	res := h.Begin(context.Background(), Request{PlanID: "essential", Bracket: catalog.BracketMedium})
	require.Equal(t, Failed, res.Kind)
	require.Equal(t, "No such price: 'price_essential_medium_replace'", res.Notice)
	require.Equal(t, 1, fake.calls)

	fake.err = errors.New("dial tcp: timeout")
	res = h.Begin(context.Background(), Request{PlanID: "essential", Bracket: catalog.BracketMedium})
	require.Equal(t, Failed, res.Kind)
	require.Equal(t, "dial tcp: timeout", res.Notice)
	require.Equal(t, 2, fake.calls)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "ready", Ready.String())
	require.Equal(t, "failed", Failed.String())
	require.Equal(t, "not_configured", NotConfigured.String())
}
