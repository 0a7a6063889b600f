package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/application/usecases/queries"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/errs"
)

// Server handles HTTP requests. It coordinates between HTTP handlers and
// application use cases; provider webhooks are routed straight to the
// courier adapter registry because signature verification needs the raw
// request bytes, not a bound struct.
type Server struct {
	// Command handlers
	submitOrderHandler    commands.SubmitOrderCommandHandler
	confirmOrderHandler   commands.ConfirmOrderCommandHandler
	batchOrdersHandler    commands.BatchOrdersCommandHandler
	quoteDeliveryHandler  commands.QuoteDeliveryCommandHandler
	createDeliveryHandler commands.CreateDeliveryCommandHandler
	cancelDeliveryHandler commands.CancelDeliveryCommandHandler

	// Query handlers
	getUnbatchedOrdersHandler queries.GetUnbatchedOrdersQueryHandler
	getDeliveryStatusHandler  queries.GetDeliveryStatusQueryHandler

	adapters ports.AdapterRegistry
}

// NewServer creates an HTTP server with the required command and query
// handlers and the configured courier adapters.
func NewServer(
	submitOrderHandler commands.SubmitOrderCommandHandler,
	confirmOrderHandler commands.ConfirmOrderCommandHandler,
	batchOrdersHandler commands.BatchOrdersCommandHandler,
	quoteDeliveryHandler commands.QuoteDeliveryCommandHandler,
	createDeliveryHandler commands.CreateDeliveryCommandHandler,
	cancelDeliveryHandler commands.CancelDeliveryCommandHandler,
	getUnbatchedOrdersHandler queries.GetUnbatchedOrdersQueryHandler,
	getDeliveryStatusHandler queries.GetDeliveryStatusQueryHandler,
	adapters ports.AdapterRegistry,
) *Server {
	return &Server{
		submitOrderHandler:        submitOrderHandler,
		confirmOrderHandler:       confirmOrderHandler,
		batchOrdersHandler:        batchOrdersHandler,
		quoteDeliveryHandler:      quoteDeliveryHandler,
		createDeliveryHandler:     createDeliveryHandler,
		cancelDeliveryHandler:     cancelDeliveryHandler,
		getUnbatchedOrdersHandler: getUnbatchedOrdersHandler,
		getDeliveryStatusHandler:  getDeliveryStatusHandler,
		adapters:                  adapters,
	}
}

// RegisterRoutes mounts every endpoint on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.SubmitOrder)
	api.POST("/orders/:id/confirm", s.ConfirmOrder)
	api.GET("/orders/unbatched", s.GetUnbatchedOrders)

	api.POST("/batches/run", s.RunBatch)
	api.POST("/batches/:batchId/deliveries/quote", s.QuoteDelivery)
	api.POST("/batches/:batchId/deliveries", s.CreateDelivery)
	api.DELETE("/batches/:batchId/deliveries", s.CancelDelivery)
	api.GET("/batches/:batchId/delivery", s.GetDeliveryStatus)

	e.POST("/webhooks/:provider", s.HandleWebhook)
}

// SubmitOrder handles POST /api/v1/orders - submits a group order against a
// program slot.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	var request SubmitOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	programSlotID, err := kernel.UUIDFromString(request.ProgramSlotID)
	if err != nil {
		return badRequest(ctx, "Invalid program slot id")
	}

	items := make([]order.LineItem, len(request.Items))
	for i, item := range request.Items {
		items[i] = order.LineItem{
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	cmd, err := commands.NewSubmitOrderCommand(
		kernel.NewUUID(), programSlotID, items, request.Tip, request.IdempotencyKey,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	aggregate, err := s.submitOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderResponseFromDomain(aggregate))
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm - locks a pending
// order before its slot cutoff.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request ConfirmOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewConfirmOrderCommand(orderID, request.TipOverride, request.IdempotencyKey)
	if err != nil {
		return badRequest(ctx, "Invalid confirmation data: "+err.Error())
	}

	aggregate, err := s.confirmOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFromDomain(aggregate))
}

// GetUnbatchedOrders handles GET /api/v1/orders/unbatched - lists orders
// not yet assigned to a batch, optionally filtered by slot.
func (s *Server) GetUnbatchedOrders(ctx echo.Context) error {
	query := queries.NewGetUnbatchedOrdersQuery()

	if slotParam := ctx.QueryParam("programSlotId"); slotParam != "" {
		programSlotID, err := kernel.UUIDFromString(slotParam)
		if err != nil {
			return badRequest(ctx, "Invalid program slot id")
		}

		query, err = queries.NewGetUnbatchedOrdersQueryForSlot(programSlotID)
		if err != nil {
			return badRequest(ctx, "Invalid program slot id")
		}
	}

	rows, err := s.getUnbatchedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]UnbatchedOrderResponse, len(rows))
	for i, row := range rows {
		response[i] = UnbatchedOrderResponse{
			ID:            row.ID.String(),
			ProgramSlotID: row.ProgramSlotID.String(),
			Status:        row.Status,
			Total:         row.Total,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RunBatch handles POST /api/v1/batches/run - triggers a batching run. The
// body may name one slot; without it every due slot is processed.
func (s *Server) RunBatch(ctx echo.Context) error {
	var request RunBatchRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewBatchOrdersCommand()
	if request.ProgramSlotID != "" {
		programSlotID, idErr := kernel.UUIDFromString(request.ProgramSlotID)
		if idErr != nil {
			return badRequest(ctx, "Invalid program slot id")
		}

		cmd, err = commands.NewBatchOrdersCommandForSlot(programSlotID)
	}
	if err != nil {
		return badRequest(ctx, "Invalid batch run data: "+err.Error())
	}

	summaries, err := s.batchOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, batchSummariesFromDomain(summaries))
}

// QuoteDelivery handles POST /api/v1/batches/:batchId/deliveries/quote -
// asks a courier network for a fee estimate.
func (s *Server) QuoteDelivery(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("batchId"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	var request QuoteDeliveryRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	readyAt, err := parseReadyAt(request.ReadyAt)
	if err != nil {
		return badRequest(ctx, "Invalid readyAt timestamp")
	}

	cmd, err := commands.NewQuoteDeliveryCommand(
		batchID, request.Adapter,
		request.PickupAddress, request.DropoffAddress,
		readyAt, request.Reference,
	)
	if err != nil {
		return badRequest(ctx, "Invalid quote data: "+err.Error())
	}

	quote, err := s.quoteDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, QuoteResponse{
		Fee:        quote.Fee,
		Currency:   quote.Currency,
		ETAMinutes: quote.ETAMinutes,
	})
}

// CreateDelivery handles POST /api/v1/batches/:batchId/deliveries - books
// the batch's delivery with a courier network.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("batchId"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	var request CreateDeliveryRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	readyAt, err := parseReadyAt(request.ReadyAt)
	if err != nil {
		return badRequest(ctx, "Invalid readyAt timestamp")
	}

	cmd, err := commands.NewCreateDeliveryCommand(
		batchID, request.Adapter,
		request.PickupAddress, request.DropoffAddress,
		readyAt, request.Reference,
		request.ContactEmail, request.ContactPhone,
	)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	job, err := s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, deliveryJobResponseFromDomain(job))
}

// CancelDelivery handles DELETE /api/v1/batches/:batchId/deliveries -
// withdraws the batch's delivery from its courier network.
func (s *Server) CancelDelivery(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("batchId"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	cmd, err := commands.NewCancelDeliveryCommand(batchID)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation data: "+err.Error())
	}

	job, err := s.cancelDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryJobResponseFromDomain(job))
}

// GetDeliveryStatus handles GET /api/v1/batches/:batchId/delivery - returns
// the batch's courier job with its tracking timeline and proofs.
func (s *Server) GetDeliveryStatus(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("batchId"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	query, err := queries.NewGetDeliveryStatusQuery(batchID)
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	row, err := s.getDeliveryStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryJobResponseFromQuery(row))
}

// HandleWebhook handles POST /webhooks/:provider - authenticates a courier
// network callback and publishes the canonical status update. The body is
// read raw before any parsing because the signature covers the exact bytes
// the provider sent.
func (s *Server) HandleWebhook(ctx echo.Context) error {
	adapter, err := s.adapters.Resolve(ctx.Param("provider"))
	if err != nil {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Unknown provider",
		})
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return badRequest(ctx, "Unreadable request body")
	}

	update, err := adapter.ParseWebhook(ctx.Request().Context(), ports.WebhookRequest{
		Headers: ctx.Request().Header,
		Body:    body,
	})
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, WebhookAcceptedResponse{
		Provider:      update.Provider,
		ExternalJobID: update.ExternalJobID,
		Status:        update.Status,
	})
}

func parseReadyAt(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application errors onto HTTP statuses. Unrecognized
// errors surface as 500 without leaking internals.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrInvalidSignature),
		errors.Is(err, errs.ErrMissingSignatureHeader):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrUnsupportedAdapter),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrMissingExternalID):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrAdapterHTTPRequestError):
		status = http.StatusBadGateway
	}

	return ctx.JSON(status, Error{
		Code:    status,
		Message: err.Error(),
	})
}
