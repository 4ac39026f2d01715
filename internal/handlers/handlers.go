package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/skilldesk/marketplace/configs"
	"github.com/skilldesk/marketplace/internal/errs"
	"github.com/skilldesk/marketplace/internal/httputil"
	"github.com/skilldesk/marketplace/internal/logger"
	appmw "github.com/skilldesk/marketplace/internal/middleware"
	"github.com/skilldesk/marketplace/internal/reporting"
	"github.com/skilldesk/marketplace/internal/settlement"
	"github.com/skilldesk/marketplace/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Store   *store.Store
	Engine  *settlement.Engine
	Reports *reporting.Service
}

func New(st *store.Store, engine *settlement.Engine, reports *reporting.Service) *Handler {
	return &Handler{Store: st, Engine: engine, Reports: reports}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	profile, err := h.Store.ProfileByEmail(r.Context(), req.Email)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	claims := jwt.MapClaims{
		"sub": profile.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.AppConfig.JWT.SECRET))
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	profile := appmw.ProfileFromContext(r.Context())
	if profile == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	profile := appmw.ProfileFromContext(r.Context())
	if profile == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	contract, err := h.Store.ContractForParty(r.Context(), profile.ID, uint(id))
	if err != nil {
		httputil.WriteError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, contract)
}

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	profile := appmw.ProfileFromContext(r.Context())
	if profile == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	contracts, err := h.Store.ContractsForParty(r.Context(), profile.ID)
	if err != nil {
		logger.Log.Error("failed to list contracts", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list contracts")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, contracts)
}

func (h *Handler) ListUnpaidJobs(w http.ResponseWriter, r *http.Request) {
	profile := appmw.ProfileFromContext(r.Context())
	if profile == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobs, err := h.Store.UnpaidJobsForParty(r.Context(), profile.ID)
	if err != nil {
		logger.Log.Error("failed to list unpaid jobs", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list unpaid jobs")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, jobs)
}

func (h *Handler) PayJob(w http.ResponseWriter, r *http.Request) {
	profile := appmw.ProfileFromContext(r.Context())
	if profile == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID, err := strconv.ParseUint(chi.URLParam(r, "job_id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	job, err := h.Engine.PayJob(r.Context(), profile, uint(jobID))
	if err != nil {
		logger.Log.Warn("payment declined",
			zap.Uint("profile", profile.ID),
			zap.Uint64("job", jobID),
			zap.Error(err))
		httputil.WriteError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, job)
}

type DepositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseUint(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "amount is required")
		return
	}

	client, err := h.Engine.Deposit(r.Context(), uint(clientID), *req.Amount)
	if err != nil {
		logger.Log.Warn("deposit declined",
			zap.Uint64("client", clientID),
			zap.Error(err))
		httputil.WriteError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, client)
}
