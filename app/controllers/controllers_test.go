package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/billingview"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/feedback"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/middleware"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/notify"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/upgrade"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
)

var testUser = usercontext.UserContext{
	UserID:     7,
	PublicID:   "pub-1",
	FirstName:  "Ada",
	IsLoggedIn: true,
	Plan:       "Premium",
}

type fakeBilling struct {
	mu       sync.Mutex
	snap     billing.Snapshot
	err       error
	recordErr error
	recorded  []billing.UpgradeRecord
}

func (f *fakeBilling) Snapshot(ctx context.Context, userID uint) (billing.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.err
}

func (f *fakeBilling) RecordUpgrade(ctx context.Context, userID uint, rec billing.UpgradeRecord) (billing.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return "", f.recordErr
	}
	f.recorded = append(f.recorded, rec)
	return rec.Plan.Plan(), nil
}

type fakeUpgrader struct {
	mu    sync.Mutex
	calls []upgrade.Request
	err   error
}

func (f *fakeUpgrader) Run(ctx context.Context, req upgrade.Request, n notify.Notifier) (*upgrade.Receipt, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	err := f.err
	f.mu.Unlock()

	if err != nil {
		n.Error(upgrade.UserMessage(err))
		return nil, err
	}
	n.Success("Successfully upgraded to " + string(req.Plan) + " plan!")
	return &upgrade.Receipt{
		Plan:     req.Plan,
		TxHash:   common.HexToHash("0x01"),
		From:     common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		ValueETH: decimal.RequireFromString("0.01"),
	}, nil
}

func (f *fakeUpgrader) requests() []upgrade.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upgrade.Request(nil), f.calls...)
}

type fakeGateway struct {
	mu      sync.Mutex
	records []feedback.Record
	err     error
}

func (f *fakeGateway) Submit(ctx context.Context, rec feedback.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeCaptcha struct{ err error }

func (f fakeCaptcha) Verify(ctx context.Context, token string) error { return f.err }

type fakeReferrals struct {
	mu   sync.Mutex
	refs []string
}

func (f *fakeReferrals) AddReferralVisit(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs = append(f.refs, ref)
	return nil
}

type testEnv struct {
	app       *fiber.App
	billing   *fakeBilling
	upgrader  *fakeUpgrader
	gateway   *fakeGateway
	referrals *fakeReferrals
}

func newTestEnv(t *testing.T, user usercontext.UserContext) *testEnv {
	t.Helper()

	te := &testEnv{
		billing: &fakeBilling{snap: billing.Snapshot{
			CurrentPlan:  billing.PlanPremium,
			BillingCycle: billing.CycleMonthly,
			Status:       billing.StatusActive,
			Cost:         decimal.NewFromInt(3),
			UsageLimits:  map[string]billing.Usage{"transactions": {Used: 50, Limit: 500}},
		}},
		upgrader:  &fakeUpgrader{},
		gateway:   &fakeGateway{},
		referrals: &fakeReferrals{},
	}

	prev := deps
	t.Cleanup(func() { deps = prev })
	Setup(Dependencies{
		Dashboards: billingview.NewRegistry(time.Hour, func(u billingview.User) *billingview.Controller {
			return billingview.NewController(u, billingview.Deps{
				Billing:   te.billing,
				Upgrader:  te.upgrader,
				Scheduler: billingview.RealScheduler,
				BaseURL:   "https://blockholder.test",
				Log:       zerolog.Nop(),
				Outbox:    billingview.NewOutbox(),
			})
		}),
		Billing:   te.billing,
		Feedback:  te.gateway,
		Referrals: te.referrals,
		BaseURL:   "https://blockholder.test",
		Log:       zerolog.Nop(),
	})

	app := fiber.New(fiber.Config{Views: html.New("../../views", ".html")})
	app.Use(func(c *fiber.Ctx) error {
		usercontext.SetUserContext(c, user)
		return c.Next()
	})
	app.Get("/", HandleStart)
	app.Get("/pricing", HandlePricing)
	app.Get("/pricing/calculator", HandleCalculator)
	app.Get("/feedback", HandleFeedbackForm)
	app.Post("/feedback", HandleFeedbackSubmit)

	dash := app.Group("/pricing")
	dash.Post("/annual", middleware.RequireAuth, HandleDashboardAnnual)
	dash.Post("/upgrade/open", middleware.RequireAuth, HandleUpgradeOpen)
	dash.Post("/upgrade/close", middleware.RequireAuth, HandleUpgradeClose)
	dash.Post("/upgrade/select", middleware.RequireAuth, HandleUpgradeSelect)
	dash.Post("/upgrade/confirm", middleware.RequireAuth, HandleUpgradeConfirm)
	dash.Post("/payment/open", middleware.RequireAuth, HandlePaymentOpen)
	dash.Post("/payment/close", middleware.RequireAuth, HandlePaymentClose)
	dash.Post("/payment/kind", middleware.RequireAuth, HandlePaymentKind)
	dash.Post("/payment/submit", middleware.RequireAuth, HandlePaymentSubmit)
	dash.Post("/referral/open", middleware.RequireAuth, HandleReferralOpen)
	dash.Post("/referral/copy", middleware.RequireAuth, HandleReferralCopy)
	dash.Post("/referral/share/:platform", middleware.RequireAuth, HandleReferralShare)
	dash.Post("/calculator/open", middleware.RequireAuth, HandleCalculatorOpen)

	api := app.Group("/api/v1")
	api.Get("/pricing/tiers", HandleAPIPricingTiers)
	api.Get("/billing/snapshot", middleware.RequireAPISessionAuth, HandleAPIBillingSnapshot)
	api.Post("/feedback", HandleAPIFeedback)
	api.Post("/staking/calculate", HandleAPIStakingCalculate)

	te.app = app
	return te
}

func (te *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := te.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (te *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	return te.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (te *testEnv) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return te.do(t, req)
}

func (te *testEnv) postJSON(t *testing.T, path, body string) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return te.do(t, req)
}

func (te *testEnv) dashboard() *billingview.Controller {
	ctrl, _ := deps.Dashboards.Get(billingview.User{ID: testUser.UserID, PublicID: testUser.PublicID, FirstName: testUser.FirstName})
	return ctrl
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

func TestPricingShowsPublicPageWhenSignedOut(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})

	resp, body := te.get(t, "/pricing?billing=annual")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Choose your plan")
	assert.Contains(t, body, "$30")
	assert.Contains(t, body, "/year")
	assert.Contains(t, body, "Frequently Asked Questions")
	assert.Equal(t, 0, deps.Dashboards.Len())
}

func TestPricingShowsDashboardWhenSignedIn(t *testing.T) {
	te := newTestEnv(t, testUser)

	resp, body := te.get(t, "/pricing")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome back, Ada")
	assert.Contains(t, body, "Current plan: Premium")
	assert.Contains(t, body, "50 / 500")
	assert.Equal(t, 1, deps.Dashboards.Len())
}

func TestDashboardActionsRequireSignIn(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})

	resp, _ := te.postForm(t, "/pricing/upgrade/open", nil)
	assertRedirect(t, resp, "/pricing")
	assert.Equal(t, 0, deps.Dashboards.Len())
}

func TestUpgradeSelectAndConfirm(t *testing.T) {
	te := newTestEnv(t, testUser)

	resp, _ := te.postForm(t, "/pricing/upgrade/open", nil)
	assertRedirect(t, resp, "/pricing")
	assert.True(t, te.dashboard().State().UpgradeOpen)

	resp, _ = te.postForm(t, "/pricing/upgrade/select", url.Values{"plan": {"premium"}})
	assertRedirect(t, resp, "/pricing")
	state := te.dashboard().State()
	require.NotNil(t, state.Selection)
	assert.Equal(t, billing.UpgradePremium, state.Selection.Plan)

	_, body := te.get(t, "/pricing")
	assert.Contains(t, body, "Upgrade your plan")
	assert.Contains(t, body, "0.01 ETH")

	resp, _ = te.postForm(t, "/pricing/upgrade/confirm", nil)
	assertRedirect(t, resp, "/pricing")

	reqs := te.upgrader.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, billing.UpgradePremium, reqs[0].Plan)
	assert.Equal(t, state.Selection.Token, reqs[0].IdempotencyKey)
	assert.Len(t, te.billing.recorded, 1)
	assert.False(t, te.dashboard().State().UpgradeOpen)
}

func TestUpgradeModalMarksCurrentAndLowerPlans(t *testing.T) {
	te := newTestEnv(t, testUser)

	te.postForm(t, "/pricing/upgrade/open", nil)
	_, body := te.get(t, "/pricing")
	assert.Equal(t, 1, strings.Count(body, "<small>Current plan</small>"))
	assert.Equal(t, 1, strings.Count(body, "<small>Downgrade</small>"))
}

func TestUpgradeNotRecordedDropsSuccessToast(t *testing.T) {
	te := newTestEnv(t, testUser)
	te.billing.recordErr = errors.New("db down")

	te.postForm(t, "/pricing/upgrade/open", nil)
	te.postForm(t, "/pricing/upgrade/select", url.Values{"plan": {"premium"}})
	resp, _ := te.postForm(t, "/pricing/upgrade/confirm", nil)
	assertRedirect(t, resp, "/pricing")

	require.Len(t, te.upgrader.requests(), 1)
	assert.Empty(t, te.dashboard().Outbox().Notes.Drain())
}

func TestUpgradeSelectUnknownPlanKeepsSelection(t *testing.T) {
	te := newTestEnv(t, testUser)

	te.postForm(t, "/pricing/upgrade/open", nil)
	te.postForm(t, "/pricing/upgrade/select", url.Values{"plan": {"basic"}})
	resp, _ := te.postForm(t, "/pricing/upgrade/select", url.Values{"plan": {"gold"}})
	assertRedirect(t, resp, "/pricing")

	state := te.dashboard().State()
	require.NotNil(t, state.Selection)
	assert.Equal(t, billing.UpgradeBasic, state.Selection.Plan)
}

func TestUpgradeConfirmWithoutSelection(t *testing.T) {
	te := newTestEnv(t, testUser)

	te.postForm(t, "/pricing/upgrade/open", nil)
	resp, _ := te.postForm(t, "/pricing/upgrade/confirm", nil)
	assertRedirect(t, resp, "/pricing")
	assert.Empty(t, te.upgrader.requests())
	assert.False(t, te.dashboard().State().UpgradeOpen)
}

func TestUpgradeFailureClosesModal(t *testing.T) {
	te := newTestEnv(t, testUser)
	te.upgrader.err = &upgrade.Error{Kind: upgrade.ErrAuthorizationDenied, Plan: billing.UpgradeEnterprise}

	te.postForm(t, "/pricing/upgrade/open", nil)
	te.postForm(t, "/pricing/upgrade/select", url.Values{"plan": {"enterprise"}})
	resp, _ := te.postForm(t, "/pricing/upgrade/confirm", nil)
	assertRedirect(t, resp, "/pricing")

	assert.Empty(t, te.billing.recorded)
	assert.False(t, te.dashboard().State().UpgradeOpen)
	assert.Nil(t, te.dashboard().State().Selection)
}

func TestAnnualToggle(t *testing.T) {
	te := newTestEnv(t, testUser)

	te.postForm(t, "/pricing/annual", url.Values{"annual": {"true"}})
	assert.True(t, te.dashboard().State().Annual)

	_, body := te.get(t, "/pricing")
	assert.Contains(t, body, "$70")

	te.postForm(t, "/pricing/annual", url.Values{"annual": {"false"}})
	assert.False(t, te.dashboard().State().Annual)
}

func TestPaymentKindAndSubmit(t *testing.T) {
	te := newTestEnv(t, testUser)

	te.postForm(t, "/pricing/payment/open", nil)
	te.postForm(t, "/pricing/payment/kind", url.Values{"kind": {"paypal"}})
	state := te.dashboard().State()
	assert.True(t, state.PaymentOpen)
	assert.Equal(t, billingview.PaymentPayPal, state.PaymentKind)

	_, body := te.get(t, "/pricing")
	assert.Contains(t, body, "Connect PayPal Account")

	resp, _ := te.postForm(t, "/pricing/payment/kind", url.Values{"kind": {"bitcoin"}})
	assertRedirect(t, resp, "/pricing")
	assert.Equal(t, billingview.PaymentPayPal, te.dashboard().State().PaymentKind)

	te.postForm(t, "/pricing/payment/submit", nil)
	assert.False(t, te.dashboard().State().PaymentOpen)
}

func TestReferralShareRedirectsToIntent(t *testing.T) {
	te := newTestEnv(t, testUser)

	resp, _ := te.postForm(t, "/pricing/referral/share/twitter", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(loc, "https://twitter.com/intent/tweet?url="), loc)
	assert.Contains(t, loc, url.QueryEscape("https://blockholder.test/?ref=pub-1"))

	resp, _ = te.postForm(t, "/pricing/referral/share/myspace", nil)
	assertRedirect(t, resp, "/pricing")
}

func TestReferralCopyHandsLinkToNextRender(t *testing.T) {
	te := newTestEnv(t, testUser)

	te.postForm(t, "/pricing/referral/open", nil)
	resp, _ := te.postForm(t, "/pricing/referral/copy", nil)
	assertRedirect(t, resp, "/pricing")
	assert.True(t, te.dashboard().State().Copied)

	_, body := te.get(t, "/pricing")
	assert.Contains(t, body, "navigator.clipboard.writeText(")
	assert.Contains(t, body, "pub-1")
	assert.Contains(t, body, "Copied!")

	_, body = te.get(t, "/pricing")
	assert.NotContains(t, body, "navigator.clipboard.writeText(")
}

func TestCalculatorPage(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})

	resp, body := te.get(t, "/pricing/calculator")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Staking Reward Calculator")
	assert.NotContains(t, body, "Estimated earnings")

	resp, body = te.get(t, "/pricing/calculator?token=ETH&amount=10&price_usd=100&rate_percent=52&weeks=1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "$10.00")
	assert.Contains(t, body, "0.1000 ETH")

	resp, body = te.get(t, "/pricing/calculator?amount=abc")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, errInvalidNumber.Error())
}

func TestCalculatorModalOnDashboard(t *testing.T) {
	te := newTestEnv(t, testUser)

	te.postForm(t, "/pricing/calculator/open", nil)
	_, body := te.get(t, "/pricing")
	assert.Contains(t, body, "Staking Reward Calculator")
}

func TestStartCountsReferralVisits(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})

	resp, body := te.get(t, "/?ref=pub-9")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "BlockHolder")
	assert.Equal(t, []string{"pub-9"}, te.referrals.refs)
}

func TestStartIgnoresOwnReferralLink(t *testing.T) {
	te := newTestEnv(t, testUser)

	te.get(t, "/?ref=pub-1")
	assert.Empty(t, te.referrals.refs)
}

func TestFeedbackMissingFieldsKeepInput(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})

	resp, body := te.postForm(t, "/feedback", url.Values{"name": {"Grace"}, "email": {"  "}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `value="Grace"`)
	assert.Contains(t, body, "Please enter your email.")
	assert.Contains(t, body, "Please enter your feedback.")
	assert.NotContains(t, body, "Please enter your name.")
	assert.Empty(t, te.gateway.records)
}

func TestFeedbackSubmitSuccess(t *testing.T) {
	te := newTestEnv(t, testUser)

	resp, _ := te.postForm(t, "/feedback", url.Values{
		"name":     {"Grace"},
		"email":    {"grace@example.com"},
		"feedback": {"Great dashboard"},
	})
	assertRedirect(t, resp, "/feedback")

	require.Len(t, te.gateway.records, 1)
	rec := te.gateway.records[0]
	assert.Equal(t, "Great dashboard", rec.Feedback)
	require.NotNil(t, rec.UserID)
	assert.Equal(t, testUser.UserID, *rec.UserID)
}

func TestFeedbackGatewayFailureKeepsInput(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})
	te.gateway.err = errors.New("db down")

	resp, body := te.postForm(t, "/feedback", url.Values{
		"name":     {"Grace"},
		"email":    {"grace@example.com"},
		"feedback": {"Great dashboard"},
	})
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, msgFeedbackFailed)
	assert.Contains(t, body, "Great dashboard")
}

func TestFeedbackCaptchaRejected(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})
	deps.Captcha = fakeCaptcha{err: errors.New("invalid-input-response")}

	resp, body := te.postForm(t, "/feedback", url.Values{
		"name":     {"Grace"},
		"email":    {"grace@example.com"},
		"feedback": {"Great dashboard"},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, msgCaptchaFailed)
	assert.Empty(t, te.gateway.records)
}

func TestAPIPricingTiers(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})

	resp, body := te.get(t, "/api/v1/pricing/tiers?annual=true")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Annual bool           `json:"annual"`
		Tiers  []TierResponse `json:"tiers"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Annual)
	require.Len(t, out.Tiers, 3)
	assert.True(t, out.Tiers[0].Free)
	assert.Nil(t, out.Tiers[0].Price)
	require.NotNil(t, out.Tiers[1].Price)
	assert.True(t, decimal.NewFromInt(30).Equal(*out.Tiers[1].Price))
	assert.Equal(t, "year", out.Tiers[1].Period)
}

func TestAPIBillingSnapshot(t *testing.T) {
	te := newTestEnv(t, testUser)

	resp, body := te.get(t, "/api/v1/billing/snapshot")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"current_plan":"Premium"`)

	anon := newTestEnv(t, usercontext.UserContext{})
	resp, _ = anon.get(t, "/api/v1/billing/snapshot")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPIFeedback(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})

	resp, body := te.postJSON(t, "/api/v1/feedback", `{"name":"Grace"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `"fields":["email","feedback"]`)

	resp, _ = te.postJSON(t, "/api/v1/feedback", `{"name":"Grace","email":"g@example.com","feedback":"Nice"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Len(t, te.gateway.records, 1)
	assert.Nil(t, te.gateway.records[0].UserID)
}

func TestAPIStakingCalculate(t *testing.T) {
	te := newTestEnv(t, usercontext.UserContext{})

	resp, body := te.postJSON(t, "/api/v1/staking/calculate",
		`{"token":"ETH","amount":"10","price_usd":"100","rate_percent":"52","weeks":1}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"rewards_usd":"10"`)

	resp, _ = te.postJSON(t, "/api/v1/staking/calculate",
		`{"token":"DOGE","amount":"10","price_usd":"1","rate_percent":"5","weeks":1}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
