package internal

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"order-sentry/internal/model"
)

type Handlers struct {
	Service IService
	secret  string
	logger  *zap.SugaredLogger
}

func NewHandlers(Service IService, secret string, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{Service: Service, secret: secret, logger: logger}
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var i model.LoginInput

	if err := c.BodyParser(&i); err != nil {
		h.logger.Errorf("Error on login request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	t, err := h.Service.Login(c.Context(), i.Login, i.Password)
	if err != nil {
		h.logger.Errorf("Error on login request: %s", err.Error())
		if errors.Is(err, ErrInvalidCredentials) {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	setAuthCookie(c, t)
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handlers) GetOrders(c *fiber.Ctx) error {
	role, err := h.getRoleFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	orders, err := h.Service.Orders(role)
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return h.errorResponse(c, "Error on get orders request", err)
	}

	return c.Status(fiber.StatusOK).JSON(orders)
}

// GetNewOrders serves the badge payload: the not-yet-acknowledged orders and
// their count.
func (h *Handlers) GetNewOrders(c *fiber.Ctx) error {
	role, err := h.getRoleFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	orders, err := h.Service.NewOrders(role)
	if err != nil {
		return h.errorResponse(c, "Error on get new orders request", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": len(orders), "orders": orders})
}

func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	role, err := h.getRoleFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	order, err := h.Service.Order(c.Context(), role, c.Params("id"))
	if err != nil {
		return h.errorResponse(c, "Error on get order request", err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) UpdateOrderStatus(c *fiber.Ctx) error {
	role, err := h.getRoleFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var i model.StatusUpdateInput
	if err = c.BodyParser(&i); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Error on update status request", "data": "incorrect request format"})
	}

	order, err := h.Service.UpdateStatus(c.Context(), role, c.Params("id"), i.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			return c.SendStatus(fiber.StatusUnprocessableEntity)
		}
		return h.errorResponse(c, "Error on update status request", err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) DeleteOrder(c *fiber.Ctx) error {
	role, err := h.getRoleFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	err = h.Service.Remove(c.Context(), role, c.Params("id"))
	if err != nil {
		return h.errorResponse(c, "Error on delete order request", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) AcknowledgeOrders(c *fiber.Ctx) error {
	role, err := h.getRoleFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if err = h.Service.Acknowledge(role); err != nil {
		return h.errorResponse(c, "Error on acknowledge request", err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *Handlers) GetStats(c *fiber.Ctx) error {
	role, err := h.getRoleFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	stats, err := h.Service.Stats(role)
	if err != nil {
		return h.errorResponse(c, "Error on get stats request", err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *Handlers) GetNotificationHistory(c *fiber.Ctx) error {
	role, err := h.getRoleFromToken(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	records, err := h.Service.NotificationHistory(c.Context(), role, limit)
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return h.errorResponse(c, "Error on notification history request", err)
	}

	return c.Status(fiber.StatusOK).JSON(records)
}

func (h *Handlers) errorResponse(c *fiber.Ctx, message string, err error) error {
	h.logger.Errorf("%s: %s", message, err.Error())

	var apiErr *APIError
	switch {
	case errors.Is(err, ErrForbidden):
		return c.SendStatus(fiber.StatusForbidden)
	case errors.Is(err, ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": message, "data": err.Error()})
	case errors.As(err, &apiErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": message, "data": apiErr.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": message, "data": err.Error()})
}

func setAuthCookie(c *fiber.Ctx, token string) {
	cookie := &fiber.Cookie{
		Name:    "token",
		Value:   token,
		Path:    "/",
		Expires: time.Now().Add(24 * time.Hour),
	}

	c.Cookie(cookie)
}

func (h *Handlers) getRoleFromToken(c *fiber.Ctx) (model.Role, error) {
	tokenString := c.Cookies("token")
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.secret), nil
	})
	if err != nil {
		return "", err
	}

	role, ok := claims["role"].(string)
	if !ok {
		return "", ErrInvalidCredentials
	}
	return model.Role(role), nil
}
