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

package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Response is a fully read HTTP response plus the round trip metadata
// needed for assertions.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	TraceID    string
}

// IsJSON reports whether the service declared a JSON body.
func (r *Response) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}

	return mediaType == "application/json"
}

// JSON parses the body. A non-JSON body yields a result where nothing exists.
func (r *Response) JSON() gjson.Result {
	return gjson.ParseBytes(r.Body)
}

// Get returns the value at a gjson path, e.g. "data.#" or "data.0.email".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding %s %s response (trace ID: %s): %w", r.Method, r.URL, r.TraceID, err)
	}

	return nil
}

// User is a single user record.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// UserList is one page of the user collection.
type UserList struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

// SingleUser wraps a user read by ID.
type SingleUser struct {
	Data User `json:"data"`
}

// CreatedUser is returned by a create. Name and Job are absent when the
// request omitted them.
type CreatedUser struct {
	ID        string  `json:"id"`
	Name      *string `json:"name,omitempty"`
	Job       *string `json:"job,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// LoginResult is a successful login.
type LoginResult struct {
	Token string `json:"token"`
}

// APIError is the service's error payload.
type APIError struct {
	Error string `json:"error"`
}
