// Package payment charges senders for their orders.
package payment

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
)

// Payment methods accepted by the sandbox.
const (
	MethodCard   = "card"
	MethodWallet = "wallet"
	MethodCash   = "cash"
)

// StatusCaptured is the receipt status of a successful charge.
const StatusCaptured = "captured"

// DeclineMethod is always declined by the sandbox.
const DeclineMethod = "card_declined"

// Sandbox is an in-process payment provider that issues transaction ids
// without moving money.
type Sandbox struct {
	logger logx.Logger

	mu      sync.Mutex
	charged map[string]float64
}

// NewSandbox returns a Sandbox.
func NewSandbox(logger logx.Logger) *Sandbox {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Sandbox{logger: logger, charged: make(map[string]float64)}
}

// Charge implements the payment gateway contract.
func (s *Sandbox) Charge(ctx context.Context, amount float64, method string) (domain.PaymentReceipt, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentReceipt{}, err
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.PaymentReceipt{}, apperr.Invalid("charge amount must be positive")
	}

	method = strings.ToLower(strings.TrimSpace(method))
	switch method {
	case MethodCard, MethodWallet, MethodCash:
	case DeclineMethod:
		return domain.PaymentReceipt{}, apperr.New(apperr.ErrUpstreamUnavailable, "payment declined")
	default:
		return domain.PaymentReceipt{}, apperr.Invalid("unsupported payment method: " + method)
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.charged[id] = amount
	s.mu.Unlock()

	s.logger.Info("payment captured",
		logx.String("transaction_id", id),
		logx.String("method", method),
		logx.Float64("amount", amount),
	)
	return domain.PaymentReceipt{TransactionID: id, Status: StatusCaptured}, nil
}

// Charged returns the amount captured under a transaction id.
func (s *Sandbox) Charged(transactionID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.charged[transactionID]
	return v, ok
}
