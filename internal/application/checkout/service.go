package checkout

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techbites/storefront/internal/domain/cart"
)

// Basket is the cart a checkout reads from
type Basket interface {
	Snapshot() ([]cart.Entry, decimal.Decimal)
	Clear(ctx context.Context)
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithClearCart empties the cart once an order link has been produced
func WithClearCart(clear bool) ServiceOption {
	return func(s *Service) {
		s.clearCart = clear
	}
}

// WithRequireItems rejects checkout of an empty cart with ErrEmptyCart
func WithRequireItems(require bool) ServiceOption {
	return func(s *Service) {
		s.requireItems = require
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service hands a session cart off to the external messaging link
type Service struct {
	composer     *Composer
	clearCart    bool
	requireItems bool
	logger       *zap.Logger
}

// NewService creates a checkout service around composer
func NewService(composer *Composer, opts ...ServiceOption) *Service {
	s := &Service{composer: composer, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Composer returns the underlying composer
func (s *Service) Composer() *Composer {
	return s.composer
}

// Checkout composes the order for basket. On validation failure the cart is left untouched.
func (s *Service) Checkout(ctx context.Context, basket Basket, address string) (*Order, error) {
	entries, total := basket.Snapshot()
	order, err := s.composer.Compose(entries, total, address)
	if err != nil {
		return nil, err
	}
	if s.requireItems && len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	s.logger.Info("Order composed",
		zap.Int("items", len(entries)),
		zap.String("total", total.StringFixed(2)),
	)
	if s.clearCart {
		basket.Clear(ctx)
	}
	return order, nil
}
