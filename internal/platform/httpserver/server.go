package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	campaignservice "cliprewards/contexts/clipping-rewards/campaign-service"
	campaignerrors "cliprewards/contexts/clipping-rewards/campaign-service/domain/errors"
	campaignhttp "cliprewards/contexts/clipping-rewards/campaign-service/transport/http"
	submissionservice "cliprewards/contexts/clipping-rewards/submission-service"
	submissionerrors "cliprewards/contexts/clipping-rewards/submission-service/domain/errors"
	submissionhttp "cliprewards/contexts/clipping-rewards/submission-service/transport/http"
	walletservice "cliprewards/contexts/finance-core/wallet-service"
	walleterrors "cliprewards/contexts/finance-core/wallet-service/domain/errors"
	accounterrors "cliprewards/contexts/identity-access/connected-accounts/domain/errors"
	accountports "cliprewards/contexts/identity-access/connected-accounts/ports"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "cliprewards/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	submissions submissionservice.Module
	campaigns   campaignservice.Module
	wallet      walletservice.Module
	admins      accountports.AdminDirectory
	cronSecret  string
}

func New(
	submissions submissionservice.Module,
	campaigns campaignservice.Module,
	wallet walletservice.Module,
	admins accountports.AdminDirectory,
	cronSecret string,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		submissions: submissions,
		campaigns:   campaigns,
		wallet:      wallet,
		admins:      admins,
		cronSecret:  cronSecret,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/rewards/v1/submissions", s.handleCreateSubmission)
	s.mux.HandleFunc("GET /api/rewards/v1/submissions", s.handleListSubmissions)
	s.mux.HandleFunc("GET /api/rewards/v1/submissions/{submission_id}", s.handleGetSubmission)
	s.mux.HandleFunc("GET /api/rewards/v1/submissions/{submission_id}/snapshots", s.handleListSnapshots)
	s.mux.HandleFunc("POST /api/rewards/v1/submissions/{submission_id}/reject", s.handleRejectSubmission)
	s.mux.HandleFunc("POST /api/rewards/v1/reconciliation/run", s.handleRunReconciliation)

	s.mux.HandleFunc("POST /api/rewards/v1/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /api/rewards/v1/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /api/rewards/v1/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("POST /api/rewards/v1/campaigns/{campaign_id}/status", s.handleChangeCampaignStatus)

	s.mux.HandleFunc("GET /api/rewards/v1/earnings", s.handleEarningsSummary)
	s.mux.HandleFunc("GET /api/rewards/v1/payouts", s.handleListPayouts)
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req submissionhttp.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.submissions.Handler.CreateSubmissionHandler(r.Context(), userID, req)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	query := r.URL.Query()
	resp, err := s.submissions.Handler.ListSubmissionsHandler(
		r.Context(),
		userID,
		query.Get("campaign_id"),
		query.Get("status"),
	)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.submissions.Handler.GetSubmissionHandler(r.Context(), r.PathValue("submission_id"))
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	if resp.Submission.UserID != userID && !s.isAdmin(r) {
		writeSubmissionError(w, http.StatusNotFound, "submission_not_found", "submission not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	submissionID := r.PathValue("submission_id")
	owner, err := s.submissions.Handler.GetSubmissionHandler(r.Context(), submissionID)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	if owner.Submission.UserID != userID && !s.isAdmin(r) {
		writeSubmissionError(w, http.StatusNotFound, "submission_not_found", "submission not found")
		return
	}
	resp, err := s.submissions.Handler.ListSnapshotsHandler(r.Context(), submissionID)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectSubmission(w http.ResponseWriter, r *http.Request) {
	adminID := s.requireAdmin(w, r)
	if adminID == "" {
		return
	}
	var req submissionhttp.RejectSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.submissions.Handler.RejectSubmissionHandler(r.Context(), adminID, r.PathValue("submission_id"), req); err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleRunReconciliation accepts either an admin session or the shared cron
// secret. The secret comparison is constant time.
func (s *Server) handleRunReconciliation(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeRun(r) {
		if r.Header.Get("X-Cron-Secret") == "" && strings.TrimSpace(r.Header.Get("X-User-Id")) == "" {
			writeSubmissionError(w, http.StatusUnauthorized, "missing_credentials", "admin session or cron secret required")
			return
		}
		writeSubmissionError(w, http.StatusForbidden, "forbidden", "not authorized to run reconciliation")
		return
	}

	resp, err := s.submissions.Handler.RunReconciliationHandler(r.Context())
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"total":    resp.Total,
		"synced":   resp.Synced,
		"approved": resp.Approved,
		"errors":   resp.Errors,
	})
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	adminID := s.requireAdmin(w, r)
	if adminID == "" {
		return
	}
	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.CreateCampaignHandler(r.Context(), adminID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.campaigns.Handler.ListCampaignsHandler(
		r.Context(),
		query.Get("brand_id"),
		query.Get("platform"),
		query.Get("status"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeCampaignStatus(w http.ResponseWriter, r *http.Request) {
	adminID := s.requireAdmin(w, r)
	if adminID == "" {
		return
	}
	var req campaignhttp.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.ChangeStatusHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEarningsSummary(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.submissions.Handler.EarningsSummaryHandler(r.Context(), userID)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.wallet.Handler.ListPayoutsHandler(r.Context(), userID)
	if err != nil {
		writeWalletDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) authorizeRun(r *http.Request) bool {
	if secret := r.Header.Get("X-Cron-Secret"); secret != "" && s.cronSecret != "" {
		if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cronSecret)) == 1 {
			return true
		}
	}
	return s.isAdmin(r)
}

func (s *Server) isAdmin(r *http.Request) bool {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	return userID != "" && s.admins != nil && s.admins.IsAdmin(r.Context(), userID)
}

func requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeSubmissionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
	}
	return userID
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) string {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeSubmissionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return ""
	}
	if !s.isAdmin(r) {
		writeSubmissionError(w, http.StatusForbidden, "forbidden", "admin role required")
		return ""
	}
	return userID
}

func writeSubmissionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, submissionerrors.ErrSubmissionNotFound):
		writeSubmissionError(w, http.StatusNotFound, "submission_not_found", err.Error())
	case errors.Is(err, submissionerrors.ErrCampaignNotFound),
		errors.Is(err, submissionerrors.ErrCampaignNotActive),
		errors.Is(err, submissionerrors.ErrCampaignEnded):
		writeSubmissionError(w, http.StatusNotFound, "campaign_not_available", err.Error())
	case errors.Is(err, submissionerrors.ErrDuplicateSubmission):
		writeSubmissionError(w, http.StatusConflict, "duplicate_submission", err.Error())
	case errors.Is(err, submissionerrors.ErrSubmissionNotHeld):
		writeSubmissionError(w, http.StatusConflict, "submission_not_held", err.Error())
	case errors.Is(err, submissionerrors.ErrInvalidSubmissionInput),
		errors.Is(err, submissionerrors.ErrInvalidSubmissionURL),
		errors.Is(err, submissionerrors.ErrUnsupportedPlatform),
		errors.Is(err, submissionerrors.ErrBaselineBelowMinimum),
		errors.Is(err, submissionerrors.ErrConnectedAccountMissing),
		errors.Is(err, submissionerrors.ErrConnectedAccountInactive):
		writeSubmissionError(w, http.StatusBadRequest, "invalid_submission", err.Error())
	case errors.Is(err, accounterrors.ErrAccountNotFound):
		writeSubmissionError(w, http.StatusBadRequest, "invalid_submission", "no connected account for campaign platform")
	case errors.Is(err, submissionerrors.ErrViewSourceUnavailable):
		writeSubmissionError(w, http.StatusServiceUnavailable, "view_source_unavailable", err.Error())
	case errors.Is(err, submissionerrors.ErrReconcileListUnavailable):
		writeSubmissionError(w, http.StatusInternalServerError, "reconcile_unavailable", "reconciliation could not enumerate candidates")
	default:
		writeSubmissionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeCampaignError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCampaignInput),
		errors.Is(err, campaignerrors.ErrUnsupportedPlatform):
		writeCampaignError(w, http.StatusBadRequest, "invalid_campaign", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidStatusTransition):
		writeCampaignError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeWalletDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, walleterrors.ErrInvalidWalletQuery):
		writeJSON(w, http.StatusBadRequest, submissionhttp.ErrorResponse{
			Code:    "invalid_wallet_query",
			Message: err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, submissionhttp.ErrorResponse{
			Code:    "internal_error",
			Message: "internal server error",
		})
	}
}

func writeSubmissionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, submissionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, submissionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
