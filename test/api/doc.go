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

// Package api provides black-box test utilities for a user management API
// (reqres.in by default).
//
// # Session Configuration
//
// LoadTestConfig resolves BASE_URL, API_KEY, TIMEOUT and the optional
// settings once per test process. The resulting TestConfig is shared
// read-only; clients take a copy of it, and WithBaseURL derives a new value
// rather than changing an existing one.
//
// # Client
//
// APIClient issues exactly one request per call and returns a fully read
// Response with the measured round trip duration. It never retries. Every
// request carries the common headers (Accept, User-Agent and the API key)
// and a W3C traceparent so a failure can be correlated with service logs.
//
// # Assertions
//
// Response bodies are untyped JSON. Each case first checks the body against
// a Shape contract (MatchShape) and only then asserts on values via gjson
// paths, so a structural problem is reported as such.
package api
