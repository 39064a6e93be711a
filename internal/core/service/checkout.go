package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/state"
)

// Checkout submits the session cart as an order.
//
// The cart is captured when the submission starts; it is cleared only
// after the submitter accepts the order and kept intact on failure.
func (s *Service) Checkout(
	ctx context.Context, sid string, c domain.Customer,
) (domain.Order, error) {
	const op = "Service.Checkout"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	store := s.sessions.Get(sid)
	st, err := store.DispatchIf(canCheckout, state.CheckoutStarted{})
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order := domain.NewOrder(s.newID(), c, st.Cart, s.now())
	if err := s.submitter.SubmitOrder(ctx, order); err != nil {
		store.Dispatch(state.CheckoutFailed{})
		log.Error("order submission failed", "order_id", order.ID, "err", err)
		return domain.Order{}, fmt.Errorf("%s: %w", op, submissionErr(err))
	}

	store.Dispatch(state.CheckoutSucceeded{})
	log.Info("order submitted", "order_id", order.ID, "items", len(order.Items))

	s.afterOrder(context.WithoutCancel(ctx), order)
	return order, nil
}

func canCheckout(st state.State) error {
	if st.Checkout == domain.CheckoutSubmitting {
		return domain.ErrCheckoutInProgress
	}
	if st.Cart.IsEmpty() {
		return domain.ErrEmptyCart
	}
	return nil
}

// RequestProduct asks the shop to source a product that is not in the
// catalog. The request gets a fresh id and timestamp.
func (s *Service) RequestProduct(
	ctx context.Context, sid string, r domain.ProductRequest,
) (domain.ProductRequest, error) {
	const op = "Service.RequestProduct"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.ProductRequest{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Validate(); err != nil {
		return domain.ProductRequest{}, fmt.Errorf("%s: %w", op, err)
	}
	r.ID = s.newID()
	r.RequestedAt = s.now()

	store := s.sessions.Get(sid)
	if err := s.submitter.RequestProduct(ctx, r); err != nil {
		store.Dispatch(state.ProductRequestFailed{})
		log.Error("product request submission failed", "request_id", r.ID, "err", err)
		return domain.ProductRequest{}, fmt.Errorf("%s: %w", op, submissionErr(err))
	}

	store.Dispatch(state.ProductRequestSucceeded{})
	log.Info("product request submitted", "request_id", r.ID)

	s.afterRequest(context.WithoutCancel(ctx), r)
	return r, nil
}

func submissionErr(err error) error {
	if errors.Is(err, domain.ErrSubmissionFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
}

// afterOrder archives and publishes an accepted order. Failures are
// logged and never reach the shopper.
func (s *Service) afterOrder(ctx context.Context, o domain.Order) {
	const op = "Service.afterOrder"
	log := slog.With("op", op, "order_id", o.ID)

	if s.archive != nil {
		if err := s.archive.ArchiveOrder(ctx, o); err != nil {
			log.Warn("failed to archive order", "err", err)
		}
	}
	if s.orders != nil {
		if err := s.orders.ProduceOrder(ctx, o); err != nil {
			log.Warn("failed to publish order event", "err", err)
		}
	}
}

func (s *Service) afterRequest(ctx context.Context, r domain.ProductRequest) {
	const op = "Service.afterRequest"
	log := slog.With("op", op, "request_id", r.ID)

	if s.archive != nil {
		if err := s.archive.ArchiveProductRequest(ctx, r); err != nil {
			log.Warn("failed to archive product request", "err", err)
		}
	}
	if s.requests != nil {
		if err := s.requests.EmitProductRequest(ctx, r); err != nil {
			log.Warn("failed to emit product request", "err", err)
		}
	}
}
