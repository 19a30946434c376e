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
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrShapeMismatch is returned when a body does not match its contract.
var ErrShapeMismatch = errors.New("response shape mismatch")

//go:embed schemas/*.json
var schemas embed.FS

// Shape is an expected response contract: required field names and their
// JSON types. It is checked before any value assertion so a failure points
// at the structure rather than at a single field.
type Shape struct {
	name   string
	schema *gojsonschema.Schema
}

var (
	UserListShape     = mustLoadShape("UserList", "user_list.json")
	SingleUserShape   = mustLoadShape("SingleUser", "single_user.json")
	CreatedUserShape  = mustLoadShape("CreatedUser", "created_user.json")
	LoginSuccessShape = mustLoadShape("LoginSuccess", "login_success.json")
	ErrorShape        = mustLoadShape("Error", "error.json")
)

func mustLoadShape(name, file string) *Shape {
	data, err := schemas.ReadFile("schemas/" + file)
	if err != nil {
		panic(fmt.Sprintf("reading schema %s: %v", file, err))
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("compiling schema %s: %v", file, err))
	}

	return &Shape{
		name:   name,
		schema: schema,
	}
}

func (s *Shape) Name() string {
	return s.name
}

// Validate checks a JSON body against the shape.
func (s *Shape) Validate(body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("%w: %s: empty body", ErrShapeMismatch, s.name)
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %s: body is not JSON: %w", ErrShapeMismatch, s.name, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}

	return fmt.Errorf("%w: %s: %s", ErrShapeMismatch, s.name, strings.Join(problems, "; "))
}
