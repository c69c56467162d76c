package unit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	submissionservice "cliprewards/contexts/clipping-rewards/submission-service"
	"cliprewards/contexts/clipping-rewards/submission-service/application/workers"
	domainerrors "cliprewards/contexts/clipping-rewards/submission-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"
	httptransport "cliprewards/contexts/clipping-rewards/submission-service/transport/http"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%04d", s.n), nil
}

type fakeViews struct {
	mu          sync.Mutex
	views       map[string]int64
	titles      map[string]string
	unavailable map[string]bool
	credential  map[string]bool
	lastToken   string
}

func newFakeViews() *fakeViews {
	return &fakeViews{
		views:       make(map[string]int64),
		titles:      make(map[string]string),
		unavailable: make(map[string]bool),
		credential: map[string]bool{
			"youtube":  false,
			"tiktok":   true,
			"facebook": true,
		},
	}
}

func (f *fakeViews) Supported(platform string) bool {
	_, ok := f.credential[platform]
	return ok
}

func (f *fakeViews) RequiresUserCredential(platform string) bool {
	return f.credential[platform]
}

func (f *fakeViews) FetchViews(_ context.Context, _ string, videoID string, accessToken string) (ports.ViewStats, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = accessToken
	if f.unavailable[videoID] {
		return ports.ViewStats{}, false
	}
	count, ok := f.views[videoID]
	if !ok {
		return ports.ViewStats{}, false
	}
	return ports.ViewStats{Views: count, Title: f.titles[videoID]}, true
}

func (f *fakeViews) setViews(videoID string, count int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[videoID] = count
}

func (f *fakeViews) setUnavailable(videoID string, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable[videoID] = down
}

type fakeCredentials struct {
	accounts map[string]ports.ConnectedAccountRef
	tokens   map[string]string
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{
		accounts: make(map[string]ports.ConnectedAccountRef),
		tokens:   make(map[string]string),
	}
}

func credKey(userID, platform string) string {
	return userID + "|" + platform
}

func (f *fakeCredentials) connect(userID, platform, token string, active bool) {
	f.accounts[credKey(userID, platform)] = ports.ConnectedAccountRef{
		AccountID: "acct-" + userID + "-" + platform,
		Active:    active,
	}
	f.tokens[credKey(userID, platform)] = token
}

func (f *fakeCredentials) ResolveAccount(_ context.Context, userID string, platform string) (ports.ConnectedAccountRef, error) {
	account, ok := f.accounts[credKey(userID, platform)]
	if !ok {
		return ports.ConnectedAccountRef{}, domainerrors.ErrConnectedAccountMissing
	}
	return account, nil
}

func (f *fakeCredentials) AccessToken(_ context.Context, userID string, platform string) (string, error) {
	token, ok := f.tokens[credKey(userID, platform)]
	if !ok {
		return "", domainerrors.ErrConnectedAccountMissing
	}
	return token, nil
}

type testEnv struct {
	module submissionservice.Module
	clock  *fakeClock
	views  *fakeViews
	creds  *fakeCredentials
}

func newTestEnv() testEnv {
	clock := newFakeClock()
	views := newFakeViews()
	creds := newFakeCredentials()
	module := submissionservice.NewInMemoryModule(submissionservice.Dependencies{
		Credentials:          creds,
		Views:                views,
		Clock:                clock,
		IDGen:                &seqIDs{},
		ReconcileBatchSize:   100,
		ReconcileConcurrency: 2,
	})
	module.Store.SeedCampaign(ports.CampaignSummary{
		CampaignID: "campaign-1",
		Title:      "spring clips",
		Platform:   "youtube",
		CPMRateUSD: 5.0,
		HoldHours:  72,
		MinViews:   1000,
		IsActive:   true,
	})
	return testEnv{module: module, clock: clock, views: views, creds: creds}
}

func TestCreateSubmissionStartsHold(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-base", 1500)

	created, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-base",
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	s := created.Submission
	if s.Status != "hold" {
		t.Fatalf("status = %s, want hold", s.Status)
	}
	if s.BaseViews != 1500 || s.CurrentViews != 1500 {
		t.Fatalf("baseline = %d/%d, want 1500/1500", s.BaseViews, s.CurrentViews)
	}
	if s.DeltaViews != 0 || s.EarningsUSD != 0 {
		t.Fatalf("new submission must start with zero delta and earnings")
	}
	if s.CPMRateUSD != 5.0 {
		t.Fatalf("cpm rate = %v, want campaign rate 5.0", s.CPMRateUSD)
	}

	holdUntil, err := time.Parse(time.RFC3339, s.HoldUntil)
	if err != nil {
		t.Fatalf("hold_until not RFC3339: %v", err)
	}
	if want := env.clock.Now().Add(72 * time.Hour); !holdUntil.Equal(want) {
		t.Fatalf("hold_until = %v, want %v", holdUntil, want)
	}

	snapshots := env.module.Store.Snapshots(s.SubmissionID)
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 baseline snapshot, got %d", len(snapshots))
	}
	if snapshots[0].Views != 1500 {
		t.Fatalf("baseline snapshot views = %d, want 1500", snapshots[0].Views)
	}
}

func TestCreateSubmissionDuplicateVideoConflicts(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-dup", 2000)

	req := httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://www.youtube.com/watch?v=vid-dup",
	}
	if _, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-2", req)
	if !errors.Is(err, domainerrors.ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate submission error, got %v", err)
	}
}

func TestCreateSubmissionBaselineBelowMinimum(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-small", 900)

	_, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-small",
	})
	if !errors.Is(err, domainerrors.ErrBaselineBelowMinimum) {
		t.Fatalf("expected baseline below minimum error, got %v", err)
	}
}

func TestCreateSubmissionRejectsBadURL(t *testing.T) {
	env := newTestEnv()

	_, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://example.com/not-a-video",
	})
	if !errors.Is(err, domainerrors.ErrInvalidSubmissionURL) {
		t.Fatalf("expected invalid url error, got %v", err)
	}
}

func TestCreateSubmissionFetchUnavailableSurfaces(t *testing.T) {
	env := newTestEnv()

	_, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-down",
	})
	if !errors.Is(err, domainerrors.ErrViewSourceUnavailable) {
		t.Fatalf("expected view source unavailable error, got %v", err)
	}
}

func TestCreateSubmissionRequiresConnectedAccount(t *testing.T) {
	env := newTestEnv()
	env.module.Store.SeedCampaign(ports.CampaignSummary{
		CampaignID: "campaign-tt",
		Platform:   "tiktok",
		CPMRateUSD: 2.0,
		HoldHours:  48,
		IsActive:   true,
	})
	env.views.setViews("7312345678901234567", 5000)

	_, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-tt",
		VideoURL:   "https://www.tiktok.com/@creator/video/7312345678901234567",
	})
	if !errors.Is(err, domainerrors.ErrConnectedAccountMissing) {
		t.Fatalf("expected missing account error, got %v", err)
	}

	env.creds.connect("creator-1", "tiktok", "tok-1", true)
	created, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-tt",
		VideoURL:   "https://www.tiktok.com/@creator/video/7312345678901234567",
	})
	if err != nil {
		t.Fatalf("create with connected account failed: %v", err)
	}
	if created.Submission.Platform != "tiktok" {
		t.Fatalf("platform = %s, want tiktok", created.Submission.Platform)
	}
}

func TestCreateSubmissionInactiveOrEndedCampaign(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-x", 5000)

	env.module.Store.SeedCampaign(ports.CampaignSummary{
		CampaignID: "campaign-paused",
		Platform:   "youtube",
		CPMRateUSD: 5.0,
		HoldHours:  72,
		IsActive:   false,
	})
	_, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-paused",
		VideoURL:   "https://youtu.be/vid-x",
	})
	if !errors.Is(err, domainerrors.ErrCampaignNotActive) {
		t.Fatalf("expected campaign not active error, got %v", err)
	}

	past := env.clock.Now().Add(-time.Hour)
	env.module.Store.SeedCampaign(ports.CampaignSummary{
		CampaignID: "campaign-over",
		Platform:   "youtube",
		CPMRateUSD: 5.0,
		HoldHours:  72,
		EndsAt:     &past,
		IsActive:   true,
	})
	_, err = env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-over",
		VideoURL:   "https://youtu.be/vid-x",
	})
	if !errors.Is(err, domainerrors.ErrCampaignEnded) {
		t.Fatalf("expected campaign ended error, got %v", err)
	}

	_, err = env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-missing",
		VideoURL:   "https://youtu.be/vid-x",
	})
	if !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found error, got %v", err)
	}
}

func TestReconcileBeforeHoldExpiryOnlySyncs(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-grow", 1500)

	created, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-grow",
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	env.views.setViews("vid-grow", 10500)
	env.clock.Advance(24 * time.Hour)

	summary, err := env.module.Reconcile.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if summary.Total != 1 || summary.Synced != 1 || summary.Approved != 0 || summary.Errors != 0 {
		t.Fatalf("summary = %+v, want total=1 synced=1 approved=0 errors=0", summary)
	}

	fetched, err := env.module.Handler.GetSubmissionHandler(context.Background(), created.Submission.SubmissionID)
	if err != nil {
		t.Fatalf("get submission failed: %v", err)
	}
	s := fetched.Submission
	if s.Status != "hold" {
		t.Fatalf("status = %s, want hold before deadline", s.Status)
	}
	if s.CurrentViews != 10500 || s.DeltaViews != 9000 {
		t.Fatalf("metrics = %d current / %d delta, want 10500/9000", s.CurrentViews, s.DeltaViews)
	}
	if s.EarningsUSD != 45.0 {
		t.Fatalf("earnings = %v, want 45.0 (9000/1000*5)", s.EarningsUSD)
	}
	if len(env.module.Store.Credits()) != 0 || len(env.module.Store.Payouts()) != 0 {
		t.Fatal("no credit or payout may exist before the hold expires")
	}
}

func TestReconcileApprovesAfterHoldWithSingleCredit(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-pay", 1500)

	created, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-pay",
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	env.views.setViews("vid-pay", 21500)
	env.clock.Advance(73 * time.Hour)

	summary, err := env.module.Reconcile.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if summary.Approved != 1 || summary.Errors != 0 {
		t.Fatalf("summary = %+v, want approved=1 errors=0", summary)
	}

	fetched, err := env.module.Handler.GetSubmissionHandler(context.Background(), created.Submission.SubmissionID)
	if err != nil {
		t.Fatalf("get submission failed: %v", err)
	}
	s := fetched.Submission
	if s.Status != "approved" {
		t.Fatalf("status = %s, want approved", s.Status)
	}
	if s.EarningsUSD != 100.0 {
		t.Fatalf("earnings = %v, want 100.0 (20000/1000*5)", s.EarningsUSD)
	}
	if s.ApprovedAt == "" {
		t.Fatal("approved_at must be set")
	}

	credits := env.module.Store.Credits()
	payouts := env.module.Store.Payouts()
	if len(credits) != 1 || len(payouts) != 1 {
		t.Fatalf("credits=%d payouts=%d, want exactly one of each", len(credits), len(payouts))
	}
	if credits[0].AmountUSD != 100.0 || payouts[0].AmountUSD != 100.0 {
		t.Fatalf("credit=%v payout=%v, want 100.0 each", credits[0].AmountUSD, payouts[0].AmountUSD)
	}
	if credits[0].UserID != "creator-1" {
		t.Fatalf("credit user = %s, want creator-1", credits[0].UserID)
	}
}

func TestReconcileRerunIsIdempotent(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-once", 1500)

	if _, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-once",
	}); err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	env.views.setViews("vid-once", 5500)
	env.clock.Advance(80 * time.Hour)

	if _, err := env.module.Reconcile.RunOnce(context.Background()); err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}
	second, err := env.module.Reconcile.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	if second.Total != 0 || second.Approved != 0 {
		t.Fatalf("second run summary = %+v, want empty candidate set", second)
	}
	if len(env.module.Store.Credits()) != 1 || len(env.module.Store.Payouts()) != 1 {
		t.Fatal("re-running reconciliation must not duplicate credits or payouts")
	}
}

func TestReconcileIsolatesFetchFailures(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-ok", 1500)
	env.views.setViews("vid-broken", 1500)

	for _, videoID := range []string{"vid-ok", "vid-broken"} {
		if _, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-"+videoID, httptransport.CreateSubmissionRequest{
			CampaignID: "campaign-1",
			VideoURL:   "https://youtu.be/" + videoID,
		}); err != nil {
			t.Fatalf("create %s failed: %v", videoID, err)
		}
	}

	env.views.setViews("vid-ok", 3500)
	env.views.setUnavailable("vid-broken", true)
	env.clock.Advance(73 * time.Hour)

	summary, err := env.module.Reconcile.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if summary.Total != 2 || summary.Approved != 1 || summary.Errors != 1 {
		t.Fatalf("summary = %+v, want total=2 approved=1 errors=1", summary)
	}
	if len(env.module.Store.Credits()) != 1 {
		t.Fatalf("credits = %d, want 1 (failed item untouched)", len(env.module.Store.Credits()))
	}

	// The failed item recovers on the next run.
	env.views.setUnavailable("vid-broken", false)
	env.views.setViews("vid-broken", 4500)
	retry, err := env.module.Reconcile.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("retry reconcile failed: %v", err)
	}
	if retry.Approved != 1 || retry.Errors != 0 {
		t.Fatalf("retry summary = %+v, want approved=1 errors=0", retry)
	}
	if len(env.module.Store.Credits()) != 2 {
		t.Fatalf("credits = %d after retry, want 2", len(env.module.Store.Credits()))
	}
}

func TestReconcileClampsNegativeDelta(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-drop", 5000)

	created, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-drop",
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	env.views.setViews("vid-drop", 4000)
	env.clock.Advance(time.Hour)

	if _, err := env.module.Reconcile.RunOnce(context.Background()); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	fetched, err := env.module.Handler.GetSubmissionHandler(context.Background(), created.Submission.SubmissionID)
	if err != nil {
		t.Fatalf("get submission failed: %v", err)
	}
	if fetched.Submission.DeltaViews != 0 || fetched.Submission.EarningsUSD != 0 {
		t.Fatalf("delta/earnings = %d/%v, want clamped to zero", fetched.Submission.DeltaViews, fetched.Submission.EarningsUSD)
	}

	snapshots := env.module.Store.Snapshots(created.Submission.SubmissionID)
	last := snapshots[len(snapshots)-1]
	if !last.IsAnomaly || last.AnomalyReason != "views_below_baseline" {
		t.Fatalf("snapshot anomaly = %v/%q, want marked views_below_baseline", last.IsAnomaly, last.AnomalyReason)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-rej", 1500)

	created, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-rej",
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	if err := env.module.Handler.RejectSubmissionHandler(context.Background(), "admin-1", created.Submission.SubmissionID, httptransport.RejectSubmissionRequest{
		Reason: "stolen content",
	}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	err = env.module.Handler.RejectSubmissionHandler(context.Background(), "admin-1", created.Submission.SubmissionID, httptransport.RejectSubmissionRequest{
		Reason: "again",
	})
	if !errors.Is(err, domainerrors.ErrSubmissionNotHeld) {
		t.Fatalf("second reject should fail with not held, got %v", err)
	}

	env.clock.Advance(200 * time.Hour)
	summary, err := env.module.Reconcile.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if summary.Total != 0 {
		t.Fatalf("rejected submission must leave the candidate set, summary = %+v", summary)
	}
	if len(env.module.Store.Credits()) != 0 {
		t.Fatal("rejected submission must never earn a credit")
	}
}

func TestEarningsSummaryAggregates(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-a", 1500)
	env.views.setViews("vid-b", 1500)

	for _, videoID := range []string{"vid-a", "vid-b"} {
		if _, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
			CampaignID: "campaign-1",
			VideoURL:   "https://youtu.be/" + videoID,
		}); err != nil {
			t.Fatalf("create %s failed: %v", videoID, err)
		}
	}

	env.views.setViews("vid-a", 3500)
	env.clock.Advance(73 * time.Hour)
	env.views.setUnavailable("vid-b", true)

	if _, err := env.module.Reconcile.RunOnce(context.Background()); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	summary, err := env.module.Handler.EarningsSummaryHandler(context.Background(), "creator-1")
	if err != nil {
		t.Fatalf("earnings summary failed: %v", err)
	}
	if summary.Total != 2 || summary.Approved != 1 || summary.Held != 1 {
		t.Fatalf("summary = %+v, want total=2 approved=1 held=1", summary)
	}
	if summary.EarningsUSD != 10.0 {
		t.Fatalf("earnings = %v, want 10.0 (2000/1000*5)", summary.EarningsUSD)
	}
}

type capturePublisher struct {
	mu     sync.Mutex
	events []ports.EventEnvelope
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []ports.EventEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.EventEnvelope(nil), p.events...)
}

func TestOutboxRelayPublishesIntactEnvelopes(t *testing.T) {
	env := newTestEnv()
	env.views.setViews("vid-relay", 1500)

	created, err := env.module.Handler.CreateSubmissionHandler(context.Background(), "creator-1", httptransport.CreateSubmissionRequest{
		CampaignID: "campaign-1",
		VideoURL:   "https://youtu.be/vid-relay",
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	publisher := &capturePublisher{}
	relay := workers.OutboxRelay{
		Outbox:    env.module.Store,
		Publisher: publisher,
		Clock:     env.clock,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	events := publisher.published()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	event := events[0]
	if event.EventType != "submission.created" {
		t.Fatalf("event type = %q, want submission.created", event.EventType)
	}
	if event.EventID == "" || event.SchemaVersion != 1 || event.SourceService != "submission-service" {
		t.Fatalf("envelope metadata lost in relay: %+v", event)
	}
	if event.PartitionKey != created.Submission.SubmissionID {
		t.Fatalf("partition key = %q, want %q", event.PartitionKey, created.Submission.SubmissionID)
	}
	var data map[string]any
	if err := json.Unmarshal(event.Data, &data); err != nil {
		t.Fatalf("event data not valid JSON: %v", err)
	}
	if data["campaign_id"] != "campaign-1" {
		t.Fatalf("event data = %v, want campaign_id campaign-1", data)
	}

	// Published rows stay published; a second cycle is a no-op.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if got := len(publisher.published()); got != 1 {
		t.Fatalf("second cycle republished: %d events, want 1", got)
	}
}
