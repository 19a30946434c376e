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
	"net/url"
	"path"
	"strconv"
)

// loginSegment replaces the collection segment of the base URL.
const loginSegment = "login"

// Endpoints contains all API endpoint URLs. The base URL points at the
// user collection, e.g. https://reqres.in/api/users.
type Endpoints struct {
	base *url.URL
}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints(baseURL string) (*Endpoints, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing base URL: %w", ErrInvalidConfiguration, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q is not absolute", ErrInvalidConfiguration, baseURL)
	}

	u.RawQuery = ""
	u.Fragment = ""

	return &Endpoints{base: u}, nil
}

func (e *Endpoints) withPath(p string) string {
	u := *e.base
	u.Path = p
	u.RawPath = ""

	return u.String()
}

// User collection endpoints.
func (e *Endpoints) Users() string {
	return e.base.String()
}

func (e *Endpoints) ListUsers(params ListUsersParams) string {
	u := *e.base
	u.RawQuery = params.Values().Encode()

	return u.String()
}

func (e *Endpoints) User(id int) string {
	return e.withPath(path.Join(e.base.Path, strconv.Itoa(id)))
}

// Invalid returns a path under the collection that the service does not serve.
func (e *Endpoints) Invalid() string {
	return e.withPath(path.Join(e.base.Path, "invalid"))
}

// Authentication endpoints.
func (e *Endpoints) Login() string {
	return e.withPath(path.Join(path.Dir(e.base.Path), loginSegment))
}
