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

	"k8s.io/utils/ptr"
)

var _ = Describe("List Users", Label("api", "users"), func() {
	Context("When requesting a page of users", func() {
		DescribeTable("should return the requested page",
			func(page int) {
				resp, err := client.ListUsers(ctx, api.ListUsersParams{Page: ptr.To(page)})
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.MatchShape(api.UserListShape))
				Expect(resp.Get("page").Int()).To(BeEquivalentTo(page))
				Expect(resp.Get("data").IsArray()).To(BeTrue())
			},
			Entry("first page", Label("smoke"), 1),
			Entry("second page", 2),
		)

		DescribeTable("should only return data for populated pages",
			func(page int, populated bool) {
				resp, err := client.ListUsers(ctx, api.ListUsersParams{Page: ptr.To(page)})
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.MatchShape(api.UserListShape))

				if populated {
					Expect(resp.Get("data.#").Int()).To(BeNumerically(">", 0))
				} else {
					Expect(resp.Get("data.#").Int()).To(BeZero())
				}
			},
			Entry("first page", 1, true),
			Entry("second page", 2, true),
			Entry("far beyond the last page", 999, false),
		)
	})

	Context("When limiting the page size", func() {
		DescribeTable("should return exactly per_page users",
			func(perPage int) {
				resp, err := client.ListUsers(ctx, api.ListUsersParams{Page: ptr.To(1), PerPage: ptr.To(perPage)})
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.MatchShape(api.UserListShape))
				Expect(resp.Get("data.#").Int()).To(BeEquivalentTo(perPage))
			},
			Entry("one user", 1),
			Entry("three users", 3),
			Entry("six users", 6),
		)

		Describe("Given boundary page sizes", func() {
			It("should fall back to the default page size for zero", func() {
				resp, err := client.ListUsers(ctx, api.ListUsersParams{Page: ptr.To(1), PerPage: ptr.To(0)})
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.MatchShape(api.UserListShape))
				Expect(resp.Get("data.#").Int()).To(BeEquivalentTo(config.DefaultPageSize))
			})

			It("should cap the page at the requested size for a large value", func() {
				resp, err := client.ListUsers(ctx, api.ListUsersParams{Page: ptr.To(1), PerPage: ptr.To(100)})
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.MatchShape(api.UserListShape))
				Expect(resp.Get("data.#").Int()).To(BeNumerically("<=", 100))
			})
		})

		Describe("Given no page size", func() {
			It("should use the default page size", func() {
				list, err := client.ListUsersPage(ctx, api.ListUsersParams{Page: ptr.To(1)})
				Expect(err).NotTo(HaveOccurred())

				Expect(list.PerPage).To(Equal(config.DefaultPageSize))
				Expect(list.Data).To(HaveLen(config.DefaultPageSize))
			})
		})
	})

	Context("When repeating the same request", func() {
		It("should return identical pagination metadata", func() {
			params := api.ListUsersParams{Page: ptr.To(1)}

			first, err := client.ListUsersPage(ctx, params)
			Expect(err).NotTo(HaveOccurred())

			second, err := client.ListUsersPage(ctx, params)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Page).To(Equal(first.Page))
			Expect(second.Total).To(Equal(first.Total))
			Expect(second.TotalPages).To(Equal(first.TotalPages))
		})
	})

	Context("When retrieving a single user", func() {
		Describe("Given the user exists", func() {
			It("should return the user", Label("smoke"), func() {
				resp, err := client.GetUser(ctx, 2)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.MatchShape(api.SingleUserShape))
				Expect(resp.Get("data.id").Int()).To(BeEquivalentTo(2))
			})
		})

		Describe("Given the user does not exist", func() {
			It("should return not found", Label("error_handling"), func() {
				resp, err := client.GetUser(ctx, 23)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusNotFound))
			})
		})
	})
})
