package internal

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"order-sentry/internal/model"
)

type IService interface {
	Login(context.Context, string, string) (string, error)
	Orders(model.Role) ([]model.Order, error)
	NewOrders(model.Role) ([]model.Order, error)
	Order(context.Context, model.Role, string) (model.Order, error)
	UpdateStatus(context.Context, model.Role, string, string) (model.Order, error)
	Remove(context.Context, model.Role, string) error
	Acknowledge(model.Role) error
	Stats(model.Role) (DashboardStats, error)
	NotificationHistory(context.Context, model.Role, int) ([]AuditRecord, error)
}

type DashboardStats struct {
	CompletedOrders int         `json:"completedOrders"`
	NewOrders       int         `json:"newOrders"`
	Sales           SalesReport `json:"sales"`
	LastCheck       time.Time   `json:"lastCheck"`
}

type Service struct {
	Repository IRepository
	audit      *AuditStore
	secret     string
	operator   OperatorConfig
	logger     *zap.SugaredLogger
}

func NewService(repository IRepository, audit *AuditStore, secret string, operator OperatorConfig, logger *zap.SugaredLogger) *Service {
	return &Service{Repository: repository, audit: audit, secret: secret, operator: operator, logger: logger}
}

func (s Service) Login(_ context.Context, login, password string) (string, error) {
	if login != s.operator.Login || GetHash(password) != GetHash(s.operator.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.GetJWTToken(s.operator.Role)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s Service) GetJWTToken(role string) (string, error) {
	claims := jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", err
	}

	return t, nil
}

func (s Service) Orders(role model.Role) ([]model.Order, error) {
	if !model.CapabilitiesFor(role).ViewOrders {
		return nil, ErrForbidden
	}

	orders := s.Repository.Orders()
	if len(orders) == 0 {
		return nil, ErrNoRecords
	}
	return orders, nil
}

func (s Service) NewOrders(role model.Role) ([]model.Order, error) {
	if !model.CapabilitiesFor(role).ViewOrders {
		return nil, ErrForbidden
	}
	return s.Repository.NewOrders(), nil
}

func (s Service) Order(ctx context.Context, role model.Role, id string) (model.Order, error) {
	if !model.CapabilitiesFor(role).ViewOrders {
		return model.Order{}, ErrForbidden
	}
	return s.Repository.FetchOne(ctx, id)
}

func (s Service) UpdateStatus(ctx context.Context, role model.Role, id, status string) (model.Order, error) {
	if !model.CapabilitiesFor(role).ViewOrders {
		return model.Order{}, ErrForbidden
	}
	return s.Repository.UpdateStatus(ctx, id, status)
}

func (s Service) Remove(ctx context.Context, role model.Role, id string) error {
	if !model.CapabilitiesFor(role).DeleteOrders {
		return ErrForbidden
	}
	return s.Repository.Remove(ctx, id)
}

// Acknowledge clears the new-order badge once the operator has seen it.
func (s Service) Acknowledge(role model.Role) error {
	if !model.CapabilitiesFor(role).ViewOrders {
		return ErrForbidden
	}
	s.Repository.Acknowledge(time.Now())
	return nil
}

func (s Service) Stats(role model.Role) (DashboardStats, error) {
	if !model.CapabilitiesFor(role).ViewOrders {
		return DashboardStats{}, ErrForbidden
	}

	orders := s.Repository.Orders()
	newOrders := s.Repository.NewOrders()

	return DashboardStats{
		CompletedOrders: UniqueCompletedCount(orders, newOrders),
		NewOrders:       len(newOrders),
		Sales:           Sales(orders, time.Now()),
		LastCheck:       s.Repository.LastCheck(),
	}, nil
}

func (s Service) NotificationHistory(ctx context.Context, role model.Role, limit int) ([]AuditRecord, error) {
	if !model.CapabilitiesFor(role).ViewOrders {
		return nil, ErrForbidden
	}
	if s.audit == nil {
		return nil, ErrNoRecords
	}

	records, err := s.audit.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

func GetHash(s string) string {
	h := sha256.New()
	ph := h.Sum([]byte(s))
	return base64.StdEncoding.EncodeToString(ph)
}
