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
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is a seeded user record.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// Page is one page of the collection.
type Page struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

// token is handed out for every successful login, as the public service does.
const token = "QpwL5tke4Pnpja7X4"

// createdAtLayout matches JavaScript's toISOString.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

func seedUsers() []User {
	names := [][2]string{
		{"George", "Bluth"},
		{"Janet", "Weaver"},
		{"Emma", "Wong"},
		{"Eve", "Holt"},
		{"Charles", "Morris"},
		{"Tracey", "Ramos"},
		{"Michael", "Lawson"},
		{"Lindsay", "Ferguson"},
		{"Tobias", "Funke"},
		{"Byron", "Fields"},
		{"George", "Edwards"},
		{"Rachel", "Howell"},
	}

	users := make([]User, len(names))

	for i, name := range names {
		id := i + 1

		users[i] = User{
			ID:        id,
			Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(name[0]), strings.ToLower(name[1])),
			FirstName: name[0],
			LastName:  name[1],
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		}
	}

	return users
}

// store is read-only apart from the create counter, so it is safe for
// concurrent handlers.
type store struct {
	users       []User
	credentials map[string]string
	nextID      atomic.Int64
	now         func() time.Time
}

func newStore() *store {
	s := &store{
		users: seedUsers(),
		credentials: map[string]string{
			"eve.holt@reqres.in": "cityslicka",
		},
		now: time.Now,
	}

	s.nextID.Store(100)

	return s
}

// list returns a page. Out of range pages are empty rather than an error.
func (s *store) list(page, perPage int) Page {
	total := len(s.users)

	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}

	result := Page{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Data:       []User{},
	}

	// Compare pages before multiplying so huge values cannot overflow.
	if page-1 >= totalPages {
		return result
	}

	start := (page - 1) * perPage

	end := min(start+perPage, total)
	result.Data = append(result.Data, s.users[start:end]...)

	return result
}

func (s *store) get(id int) (User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}

	return User{}, ErrUserNotFound
}

func (s *store) login(email, password string) (string, error) {
	expected, ok := s.credentials[email]
	if !ok {
		return "", ErrUserNotFound
	}

	if password != expected {
		return "", ErrInvalidCredentials
	}

	return token, nil
}

// create echoes the payload with a generated identifier and timestamp.
func (s *store) create(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload)+2)
	maps.Copy(out, payload)

	out["id"] = strconv.FormatInt(s.nextID.Add(1), 10)
	out["createdAt"] = s.now().UTC().Format(createdAtLayout)

	return out
}
