package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/auth"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/config"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/crypto"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/model"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/workflow"
)

type Server struct {
	cfg      config.Config
	students store.IdentityStore
	guards   store.IdentityStore
	passes   *workflow.Service
}

func NewServer(cfg config.Config, students, guards store.IdentityStore, passes *workflow.Service) *Server {
	return &Server{
		cfg:      cfg,
		students: students,
		guards:   guards,
		passes:   passes,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/student", func(r chi.Router) {
		r.Post("/register", s.handleStudentRegister)
		r.Post("/login", s.handleStudentLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireRole(model.RoleStudent))
			r.Post("/form", s.handleCreateRequest)
			r.Get("/requests", s.handleStudentRequests)
			r.Delete("/requests/{id}", s.handleDeleteRequest)
		})
	})

	r.Route("/guards", func(r chi.Router) {
		r.Post("/register", s.handleGuardRegister)
		r.Post("/login", s.handleGuardLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireRole(model.RoleGuard))
			r.Get("/requests", s.handleGuardRequests)
			r.Post("/approve/{id}", s.handleApprove)
			r.Post("/reject/{id}", s.handleReject)
		})
	})

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole is the explicit role gate on top of authentication: the token
// may be valid yet belong to the wrong role for the route group.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil || claims.Role != role {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// Registration and login

type studentCredentials struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type guardCredentials struct {
	GuardID  string `json:"guardId"`
	Password string `json:"password"`
}

func (s *Server) handleStudentRegister(w http.ResponseWriter, r *http.Request) {
	var req studentCredentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	s.register(w, r, s.students, req.ID, req.Password, "student_already_exists")
}

func (s *Server) handleGuardRegister(w http.ResponseWriter, r *http.Request) {
	var req guardCredentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	s.register(w, r, s.guards, req.GuardID, req.Password, "guard_already_exists")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, identities store.IdentityStore, id, password, duplicateCode string) {
	id = strings.TrimSpace(id)
	if id == "" || password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "password_hash_failed")
		return
	}

	identity := model.Identity{
		ID:           id,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := identities.Create(r.Context(), identity); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, duplicateCode)
			return
		}
		log.Printf("identity create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (s *Server) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	var req studentCredentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	token, ok := s.login(w, r, s.students, req.ID, req.Password, model.RoleStudent)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "id": strings.TrimSpace(req.ID)})
}

func (s *Server) handleGuardLogin(w http.ResponseWriter, r *http.Request) {
	var req guardCredentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	token, ok := s.login(w, r, s.guards, req.GuardID, req.Password, model.RoleGuard)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "guardId": strings.TrimSpace(req.GuardID)})
}

// login verifies credentials and issues a session token. Unknown id and
// wrong password are indistinguishable to the caller.
func (s *Server) login(w http.ResponseWriter, r *http.Request, identities store.IdentityStore, id, password, role string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" || password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return "", false
	}

	identity, err := identities.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return "", false
		}
		log.Printf("identity lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return "", false
	}
	if err := crypto.CheckPassword(identity.PasswordHash, password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return "", false
	}

	token, err := auth.NewSessionToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.SessionTokenTTL, auth.Claims{
		SubjectID: identity.ID,
		Role:      role,
	})
	if err != nil {
		log.Printf("token signing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "token_error")
		return "", false
	}
	return token, true
}

// Gate-pass requests

type createRequestBody struct {
	StudentID   string `json:"studentId,omitempty"`
	Name        string `json:"name"`
	HostelBlock string `json:"hostelBlock"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Luggages    string `json:"luggages"`
	Destination string `json:"destination"`
	Purpose     string `json:"purpose"`
}

type gatePassResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId"`
	Name        string `json:"name"`
	HostelBlock string `json:"hostelBlock"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Luggages    string `json:"luggages"`
	Destination string `json:"destination"`
	Purpose     string `json:"purpose"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req createRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	// Clients may echo their own id in the form; the token decides ownership.
	if req.StudentID != "" && req.StudentID != claims.SubjectID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	pass, err := s.passes.Create(r.Context(), claims.SubjectID, workflow.CreateInput{
		Name:        req.Name,
		HostelBlock: req.HostelBlock,
		Date:        req.Date,
		Time:        req.Time,
		Luggages:    req.Luggages,
		Destination: req.Destination,
		Purpose:     req.Purpose,
	})
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "missing_fields")
		case errors.Is(err, workflow.ErrInvalidDate):
			writeError(w, http.StatusBadRequest, "invalid_date")
		case errors.Is(err, workflow.ErrDateInPast):
			writeError(w, http.StatusBadRequest, "date_in_past")
		case errors.Is(err, workflow.ErrPendingExists):
			writeError(w, http.StatusConflict, "pending_request_exists")
		default:
			log.Printf("gate-pass create failed: %v", err)
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, mapGatePassResponse(pass))
}

func (s *Server) handleStudentRequests(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	passes, err := s.passes.ListForStudent(r.Context(), claims.SubjectID)
	if err != nil {
		log.Printf("gate-pass list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, mapGatePassResponses(passes))
}

func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "request_not_found")
		return
	}

	if err := s.passes.Delete(r.Context(), id, claims.SubjectID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "request_not_found")
		case errors.Is(err, workflow.ErrNotOwner):
			writeError(w, http.StatusForbidden, "forbidden")
		default:
			log.Printf("gate-pass delete failed: %v", err)
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGuardRequests(w http.ResponseWriter, r *http.Request) {
	passes, err := s.passes.ListPending(r.Context())
	if err != nil {
		log.Printf("pending list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, mapGatePassResponses(passes))
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.resolve(w, r, s.passes.Approve)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.resolve(w, r, s.passes.Reject)
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request, decide func(context.Context, string) (model.GatePass, error)) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "request_not_found")
		return
	}

	pass, err := decide(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "request_not_found")
		case errors.Is(err, workflow.ErrAlreadyResolved):
			writeError(w, http.StatusConflict, "already_resolved")
		default:
			log.Printf("gate-pass resolve failed: %v", err)
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return
	}
	writeJSON(w, http.StatusOK, mapGatePassResponse(pass))
}

func mapGatePassResponse(pass model.GatePass) gatePassResponse {
	return gatePassResponse{
		ID:          pass.ID,
		StudentID:   pass.StudentID,
		Name:        pass.Name,
		HostelBlock: pass.HostelBlock,
		Date:        pass.Date.UTC().Format("2006-01-02"),
		Time:        pass.Time,
		Luggages:    pass.Luggages,
		Destination: pass.Destination,
		Purpose:     pass.Purpose,
		Status:      string(pass.Status),
		CreatedAt:   pass.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapGatePassResponses(passes []model.GatePass) []gatePassResponse {
	resp := make([]gatePassResponse, 0, len(passes))
	for _, pass := range passes {
		resp = append(resp, mapGatePassResponse(pass))
	}
	return resp
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
