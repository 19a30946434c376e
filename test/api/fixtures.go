/*
Copyright 2024-2025 the Unikorn Authors.
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
	"fmt"
	"maps"
	"strings"

	"github.com/google/uuid"
)

// Well known fixtures published by the service.
const (
	ValidEmail    = "eve.holt@reqres.in"
	ValidPassword = "cityslicka"
	DefaultName   = "morpheus"
	DefaultJob    = "leader"
)

// GenerateTestName returns a unique, recognisable user name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

// LongString returns a string of n repeated characters for length boundaries.
func LongString(n int) string {
	return strings.Repeat("a", n)
}

// UserPayloadBuilder builds create-user payloads for testing.
type UserPayloadBuilder struct {
	payload map[string]any
}

// NewUserPayload creates a new builder with the canonical name and job.
func NewUserPayload() *UserPayloadBuilder {
	return &UserPayloadBuilder{
		payload: map[string]any{
			"name": DefaultName,
			"job":  DefaultJob,
		},
	}
}

// WithName sets the user name.
func (b *UserPayloadBuilder) WithName(name string) *UserPayloadBuilder {
	b.payload["name"] = name
	return b
}

// WithJob sets the user job.
func (b *UserPayloadBuilder) WithJob(job string) *UserPayloadBuilder {
	b.payload["job"] = job
	return b
}

// Without removes a field entirely, which differs from setting it empty.
func (b *UserPayloadBuilder) Without(field string) *UserPayloadBuilder {
	delete(b.payload, field)
	return b
}

// Empty removes every field.
func (b *UserPayloadBuilder) Empty() *UserPayloadBuilder {
	clear(b.payload)
	return b
}

// Build returns a copy of the payload so builders can be reused.
func (b *UserPayloadBuilder) Build() map[string]any {
	return maps.Clone(b.payload)
}

// LoginPayloadBuilder builds login payloads for testing.
type LoginPayloadBuilder struct {
	payload map[string]any
}

// NewLoginPayload creates a new builder with the valid credentials.
func NewLoginPayload() *LoginPayloadBuilder {
	return &LoginPayloadBuilder{
		payload: map[string]any{
			"email":    ValidEmail,
			"password": ValidPassword,
		},
	}
}

// WithEmail sets the email.
func (b *LoginPayloadBuilder) WithEmail(email string) *LoginPayloadBuilder {
	b.payload["email"] = email
	return b
}

// WithPassword sets the password.
func (b *LoginPayloadBuilder) WithPassword(password string) *LoginPayloadBuilder {
	b.payload["password"] = password
	return b
}

// Without removes a field entirely.
func (b *LoginPayloadBuilder) Without(field string) *LoginPayloadBuilder {
	delete(b.payload, field)
	return b
}

// Build returns a copy of the payload.
func (b *LoginPayloadBuilder) Build() map[string]any {
	return maps.Clone(b.payload)
}
