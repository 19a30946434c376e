/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/nscaledev/users-api-tests/pkg/openapi"
)

// Handler serves a reqres compatible users API under /api.
type Handler struct {
	// options allows behaviour to be defined on the CLI.
	options *Options

	// store holds the seeded users.
	store *store

	// logger records every request.
	logger logr.Logger

	// createUser and login describe the request bodies we validate.
	createUser *openapi3.Operation
	login      *openapi3.Operation
}

func New(options *Options, logger logr.Logger) (*Handler, error) {
	createUser, err := openapi.Operation("/users", http.MethodPost)
	if err != nil {
		return nil, err
	}

	login, err := openapi.Operation("/login", http.MethodPost)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		options:    options,
		store:      newStore(),
		logger:     logger,
		createUser: createUser,
		login:      login,
	}

	return h, nil
}

// Routes returns the HTTP handler.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(h.requireAPIKey)
	r.Use(h.delay)

	r.NotFound(h.notFound)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
		r.Get("/users/{userID}", h.GetUser)
		r.Post("/login", h.Login)
	})

	return r
}

func writeJSONResponse(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Add("Cache-Control", "no-cache")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSONResponse(w, code, map[string]string{"error": message})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusNotFound, map[string]any{})
}

// queryInt parses a positive integer, anything else yields the fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := min(queryInt(r, "per_page", h.options.pageSize()), MaxPageSize)

	writeJSONResponse(w, http.StatusOK, h.store.list(page, perPage))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		h.notFound(w, r)
		return
	}

	user, err := h.store.get(id)
	if err != nil {
		h.notFound(w, r)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"data": user})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readBody(w, r, h.createUser)
	if !ok {
		return
	}

	writeJSONResponse(w, http.StatusCreated, h.store.create(payload))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readBody(w, r, h.login)
	if !ok {
		return
	}

	email, _ := payload["email"].(string)
	password, _ := payload["password"].(string)

	if email == "" {
		writeError(w, http.StatusBadRequest, "Missing email or username")
		return
	}

	if password == "" {
		writeError(w, http.StatusBadRequest, "Missing password")
		return
	}

	token, err := h.store.login(email, password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"token": token})
}

// readBody validates and decodes a JSON object body. An absent body is an
// empty object. On failure the error response has already been written.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request, op *openapi3.Operation) (map[string]any, bool) {
	body, err := validateRequestBody(r, op)
	if err != nil {
		var verr *validationError
		if errors.As(err, &verr) {
			writeError(w, verr.status, verr.message)
			return nil, false
		}

		writeError(w, http.StatusInternalServerError, "internal error")

		return nil, false
	}

	payload := map[string]any{}

	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("malformed request body: %v", err))
			return nil, false
		}
	}

	return payload, true
}

// logRequests is a small access log.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.V(1).Info("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "status", ww.Status(), "duration", time.Since(start), "traceparent", r.Header.Get("Traceparent"))
	})
}

func (h *Handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.options.APIKey != "" && r.Header.Get(h.options.apiKeyHeader()) != h.options.APIKey {
			writeError(w, http.StatusUnauthorized, "Missing API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.options.Latency > 0 {
			timer := time.NewTimer(h.options.Latency)
			defer timer.Stop()

			select {
			case <-timer.C:
			case <-r.Context().Done():
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
