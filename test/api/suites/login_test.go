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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/users-api-tests/test/api"
)

var _ = Describe("Login", Label("api", "auth"), func() {
	Context("When logging in", func() {
		Describe("Given valid credentials", func() {
			It("should return a token", Label("smoke"), func() {
				resp, err := client.Login(ctx, api.NewLoginPayload().Build())
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.MatchShape(api.LoginSuccessShape))
				Expect(resp).To(api.HaveNonNullField("token"))
			})
		})

		Describe("Given invalid credentials", Label("error_handling"), func() {
			DescribeTable("should reject the login",
				func(email, password string) {
					resp, err := client.Login(ctx, api.NewLoginPayload().WithEmail(email).WithPassword(password).Build())
					Expect(err).NotTo(HaveOccurred())

					Expect(resp).To(api.HaveStatus(http.StatusBadRequest))
				},
				Entry("wrong password", api.ValidEmail, "wrong_password"),
				Entry("unknown email", "invalid@email.com", api.ValidPassword),
				Entry("empty email", "", api.ValidPassword),
				Entry("empty password", api.ValidEmail, ""),
			)
		})

		Describe("Given a missing field", Label("error_handling"), func() {
			DescribeTable("should explain the error",
				func(field string) {
					resp, err := client.Login(ctx, api.NewLoginPayload().Without(field).Build())
					Expect(err).NotTo(HaveOccurred())

					Expect(resp).To(api.HaveStatus(http.StatusBadRequest))
					Expect(resp).To(api.MatchShape(api.ErrorShape))
				},
				Entry("missing password", "password"),
				Entry("missing email", "email"),
			)
		})
	})
})
