package commands

import (
	"context"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/ports"
)

// QuoteDeliveryCommandHandler asks a courier adapter for a fee estimate.
// The batch must exist; the call itself has no side effects.
type QuoteDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	adapters   ports.AdapterRegistry
}

// NewQuoteDeliveryCommandHandler creates a handler for delivery quotes.
func NewQuoteDeliveryCommandHandler(
	uowFactory DispatchUoWFactory, adapters ports.AdapterRegistry,
) QuoteDeliveryCommandHandler {
	return QuoteDeliveryCommandHandler{
		uowFactory: uowFactory,
		adapters:   adapters,
	}
}

// Handle processes the quote request.
func (h *QuoteDeliveryCommandHandler) Handle(
	ctx context.Context, cmd QuoteDeliveryCommand,
) (ports.QuoteResponse, error) {
	if err := cmd.Validate(); err != nil {
		return ports.QuoteResponse{}, err
	}

	adapter, err := h.adapters.Resolve(cmd.AdapterName())
	if err != nil {
		return ports.QuoteResponse{}, err
	}

	if err = h.ensureBatchExists(ctx, cmd.BatchID()); err != nil {
		return ports.QuoteResponse{}, err
	}

	return adapter.Quote(ctx, cmd.QuoteRequest())
}

func (h *QuoteDeliveryCommandHandler) ensureBatchExists(
	ctx context.Context, batchID kernel.UUID,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.BatchRepository().Get(ctx, batchID); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
