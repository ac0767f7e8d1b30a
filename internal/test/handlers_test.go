package test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"order-sentry/internal"
	mock_internal "order-sentry/internal/mock"
	"order-sentry/internal/model"
)

const testSecret = "secret"

var _ = Describe("Handlers", func() {
	var (
		ctrl    *gomock.Controller
		service *mock_internal.MockIService
		app     *fiber.App
	)
	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		service = mock_internal.NewMockIService(ctrl)

		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		h := internal.NewHandlers(service, testSecret, logger.Sugar())
		app = fiber.New()
		api := app.Group("/api")
		api.Get("/orders", h.GetOrders)
		api.Get("/orders/new", h.GetNewOrders)
		api.Get("/orders/:id", h.GetOrder)
		api.Put("/orders/:id/status", h.UpdateOrderStatus)
		api.Delete("/orders/:id", h.DeleteOrder)
	})
	AfterEach(func() {
		ctrl.Finish()
	})

	authToken := func(role model.Role) string {
		claims := jwt.MapClaims{"role": string(role), "exp": time.Now().Add(time.Hour).Unix()}
		t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		Expect(err).ShouldNot(HaveOccurred())
		return t
	}
	doRequest := func(method, target string, role model.Role) *http.Response {
		req := httptest.NewRequest(method, target, nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: authToken(role)})
		res, err := app.Test(req)
		Expect(err).ShouldNot(HaveOccurred())
		return res
	}

	Context("authentication", func() {
		It("rejects a request without a token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			res, err := app.Test(req)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(res.StatusCode).To(Equal(http.StatusUnauthorized))
		})
		It("rejects a token signed with a different secret", func() {
			claims := jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
			t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong"))
			Expect(err).ShouldNot(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			req.AddCookie(&http.Cookie{Name: "token", Value: t})
			res, err := app.Test(req)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(res.StatusCode).To(Equal(http.StatusUnauthorized))
		})
	})
	Context("GetOrders", func() {
		It("returns 200 with the order list", func() {
			service.EXPECT().Orders(model.RoleAdmin).Return([]model.Order{newOrder("o1", time.Now())}, nil)

			res := doRequest(http.MethodGet, "/api/orders", model.RoleAdmin)
			Expect(res.StatusCode).To(Equal(http.StatusOK))
		})
		It("returns 204 when the cache is empty", func() {
			service.EXPECT().Orders(model.RoleAdmin).Return(nil, internal.ErrNoRecords)

			res := doRequest(http.MethodGet, "/api/orders", model.RoleAdmin)
			Expect(res.StatusCode).To(Equal(http.StatusNoContent))
		})
		It("returns 403 for a role without order access", func() {
			service.EXPECT().Orders(model.RoleGuest).Return(nil, internal.ErrForbidden)

			res := doRequest(http.MethodGet, "/api/orders", model.RoleGuest)
			Expect(res.StatusCode).To(Equal(http.StatusForbidden))
		})
	})
	Context("GetOrder", func() {
		It("returns 404 for an unknown order", func() {
			service.EXPECT().Order(gomock.Any(), model.RoleAdmin, "missing").Return(model.Order{}, internal.ErrOrderNotFound)

			res := doRequest(http.MethodGet, "/api/orders/missing", model.RoleAdmin)
			Expect(res.StatusCode).To(Equal(http.StatusNotFound))
		})
		It("returns 502 when the commerce backend rejects the request", func() {
			service.EXPECT().Order(gomock.Any(), model.RoleAdmin, "o1").
				Return(model.Order{}, &internal.APIError{StatusCode: http.StatusServiceUnavailable, Message: "maintenance"})

			res := doRequest(http.MethodGet, "/api/orders/o1", model.RoleAdmin)
			Expect(res.StatusCode).To(Equal(http.StatusBadGateway))
		})
	})
	Context("UpdateOrderStatus", func() {
		It("returns 422 for an unknown status value", func() {
			service.EXPECT().UpdateStatus(gomock.Any(), model.RoleAdmin, "o1", "flying").Return(model.Order{}, internal.ErrInvalidStatus)

			req := httptest.NewRequest(http.MethodPut, "/api/orders/o1/status", strings.NewReader(`{"status":"flying"}`))
			req.Header.Set("Content-Type", "application/json")
			req.AddCookie(&http.Cookie{Name: "token", Value: authToken(model.RoleAdmin)})
			res, err := app.Test(req)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(res.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		})
	})
	Context("DeleteOrder", func() {
		It("returns 204 on a successful delete", func() {
			service.EXPECT().Remove(gomock.Any(), model.RoleSuperadmin, "o1").Return(nil)

			res := doRequest(http.MethodDelete, "/api/orders/o1", model.RoleSuperadmin)
			Expect(res.StatusCode).To(Equal(http.StatusNoContent))
		})
		It("returns 403 for a non-superadmin", func() {
			service.EXPECT().Remove(gomock.Any(), model.RoleAdmin, "o1").Return(internal.ErrForbidden)

			res := doRequest(http.MethodDelete, "/api/orders/o1", model.RoleAdmin)
			Expect(res.StatusCode).To(Equal(http.StatusForbidden))
		})
	})
})
