package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	campaignservice "cliprewards/contexts/clipping-rewards/campaign-service"
	submissionservice "cliprewards/contexts/clipping-rewards/submission-service"
	submissionports "cliprewards/contexts/clipping-rewards/submission-service/ports"
	walletservice "cliprewards/contexts/finance-core/wallet-service"
	connectedaccounts "cliprewards/contexts/identity-access/connected-accounts"
)

type stubViews struct{}

func (stubViews) Supported(platform string) bool {
	return platform == "youtube"
}

func (stubViews) RequiresUserCredential(string) bool {
	return false
}

func (stubViews) FetchViews(context.Context, string, string, string) (submissionports.ViewStats, bool) {
	return submissionports.ViewStats{Views: 5000, Title: "clip"}, true
}

type stubCredentials struct{}

func (stubCredentials) ResolveAccount(context.Context, string, string) (submissionports.ConnectedAccountRef, error) {
	return submissionports.ConnectedAccountRef{AccountID: "acct", Active: true}, nil
}

func (stubCredentials) AccessToken(context.Context, string, string) (string, error) {
	return "", nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	submissions := submissionservice.NewInMemoryModule(submissionservice.Dependencies{
		Credentials: stubCredentials{},
		Views:       stubViews{},
	})
	submissions.Store.SeedCampaign(submissionports.CampaignSummary{
		CampaignID: "campaign-1",
		Platform:   "youtube",
		CPMRateUSD: 5.0,
		HoldHours:  72,
		IsActive:   true,
	})
	campaigns := campaignservice.NewInMemoryModule(campaignservice.Dependencies{
		Platforms: stubViews{},
	})
	wallet := walletservice.NewInMemoryModule(nil)
	accounts := connectedaccounts.NewInMemoryModule(connectedaccounts.Dependencies{
		AdminUserIDs: []string{"admin-1"},
	})
	return New(submissions, campaigns, wallet, accounts.Admins, "cron-secret", nil, ":0")
}

func TestRunReconciliationRequiresCredentials(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rewards/v1/reconciliation/run", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no credentials: status = %d, want 401", rec.Code)
	}
}

func TestRunReconciliationRejectsWrongSecretAndNonAdmin(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rewards/v1/reconciliation/run", nil)
	req.Header.Set("X-Cron-Secret", "wrong-secret")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong secret: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/rewards/v1/reconciliation/run", nil)
	req.Header.Set("X-User-Id", "creator-1")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin session: status = %d, want 403", rec.Code)
	}
}

func TestRunReconciliationAcceptsCronSecretAndAdmin(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rewards/v1/reconciliation/run", nil)
	req.Header.Set("X-Cron-Secret", "cron-secret")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cron secret: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("run response missing ok flag: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/rewards/v1/reconciliation/run", nil)
	req.Header.Set("X-User-Id", "admin-1")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin session: status = %d, want 200", rec.Code)
	}
}

func TestSubmissionRoutesRequireSession(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rewards/v1/submissions",
		strings.NewReader(`{"campaign_id":"campaign-1","video_url":"https://youtu.be/abc123"}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("create without session: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/rewards/v1/submissions",
		strings.NewReader(`{"campaign_id":"campaign-1","video_url":"https://youtu.be/abc123"}`))
	req.Header.Set("X-User-Id", "creator-1")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create with session: status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateSubmissionMapsDomainErrors(t *testing.T) {
	server := newTestServer(t)

	// Unknown campaign maps to 404.
	req := httptest.NewRequest(http.MethodPost, "/api/rewards/v1/submissions",
		strings.NewReader(`{"campaign_id":"nope","video_url":"https://youtu.be/abc123"}`))
	req.Header.Set("X-User-Id", "creator-1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown campaign: status = %d, want 404", rec.Code)
	}

	// Duplicate video in the same campaign maps to 409.
	body := `{"campaign_id":"campaign-1","video_url":"https://youtu.be/dupvid"}`
	req = httptest.NewRequest(http.MethodPost, "/api/rewards/v1/submissions", strings.NewReader(body))
	req.Header.Set("X-User-Id", "creator-1")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: status = %d, want 201", rec.Code)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/rewards/v1/submissions", strings.NewReader(body))
	req.Header.Set("X-User-Id", "creator-2")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: status = %d, want 409", rec.Code)
	}
}

func TestRejectSubmissionRequiresAdmin(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rewards/v1/submissions/any-id/reject",
		strings.NewReader(`{"reason":"spam"}`))
	req.Header.Set("X-User-Id", "creator-1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin reject: status = %d, want 403", rec.Code)
	}
}

func TestCampaignAdminRoutes(t *testing.T) {
	server := newTestServer(t)

	body := `{"title":"spring clips","platform":"youtube","cpm_rate_usd":5,"hold_hours":72,"min_views":1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/rewards/v1/campaigns", strings.NewReader(body))
	req.Header.Set("X-User-Id", "creator-1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin create campaign: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/rewards/v1/campaigns", strings.NewReader(body))
	req.Header.Set("X-User-Id", "admin-1")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create campaign: status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
}
