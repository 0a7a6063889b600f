package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	httpin "localoffice/internal/adapters/in/http"
	"localoffice/internal/adapters/in/queue"
	"localoffice/internal/adapters/out/courier/dispatch"
	"localoffice/internal/adapters/out/courier/olo"
	"localoffice/internal/adapters/out/courier/uberdirect"
	"localoffice/internal/adapters/out/postgres"
	"localoffice/internal/adapters/out/rabbitmq"
	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/application/usecases/queries"
	"localoffice/internal/core/ports"
	"localoffice/internal/jobs"
)

// CompositionRoot wires adapters to use cases. Every handler gets its own
// unit of work factory so transactions never leak across requests.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	jobQueue   *rabbitmq.JobQueue
	rabbit     *rabbitmq.Client
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config, gormDB *gorm.DB, rabbit *rabbitmq.Client, logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		jobQueue:   rabbitmq.NewJobQueue(rabbit, logger),
		rabbit:     rabbit,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmOrderCommandHandler(f, c.jobQueue)
}

func (c *CompositionRoot) CreateBatchOrdersCommandHandler() commands.BatchOrdersCommandHandler {
	var f commands.BatchUoWFactory = FuncBatchUoWFactory(func() commands.BatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewBatchOrdersCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateQuoteDeliveryCommandHandler() commands.QuoteDeliveryCommandHandler {
	return commands.NewQuoteDeliveryCommandHandler(c.dispatchUoWFactory(), c.CreateAdapterRegistry())
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(
		c.dispatchUoWFactory(), c.CreateAdapterRegistry(), c.jobQueue,
	)
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	return commands.NewCancelDeliveryCommandHandler(
		c.dispatchUoWFactory(), c.CreateAdapterRegistry(), c.jobQueue,
	)
}

func (c *CompositionRoot) CreateApplyDeliveryUpdateCommandHandler() commands.ApplyDeliveryUpdateCommandHandler {
	var f commands.ReconcileUoWFactory = FuncReconcileUoWFactory(func() commands.ReconcileUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyDeliveryUpdateCommandHandler(f)
}

func (c *CompositionRoot) CreateGetUnbatchedOrdersQueryHandler() queries.GetUnbatchedOrdersQueryHandler {
	return queries.NewGetUnbatchedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryStatusQueryHandler() queries.GetDeliveryStatusQueryHandler {
	return queries.NewGetDeliveryStatusQueryHandler(c.gormDB)
}

// CreateAdapterRegistry builds the courier adapter registry from the
// configured provider credentials.
func (c *CompositionRoot) CreateAdapterRegistry() ports.AdapterRegistry {
	return ports.AdapterRegistry{
		dispatch.ProviderName: dispatch.NewAdapter(dispatch.Config{
			APIKey:        c.config.DispatchAPIKey,
			BaseURL:       c.config.DispatchBaseURL,
			WebhookSecret: c.config.DispatchWebhookSecret,
		}, c.jobQueue, c.logger),
		olo.ProviderName: olo.NewAdapter(olo.Config{
			APIKey:        c.config.OloAPIKey,
			BaseURL:       c.config.OloBaseURL,
			WebhookSecret: c.config.OloWebhookSecret,
		}, c.jobQueue, c.logger),
		uberdirect.ProviderName: uberdirect.NewAdapter(uberdirect.Config{
			ClientID:      c.config.UberClientID,
			ClientSecret:  c.config.UberClientSecret,
			WebhookSecret: c.config.UberWebhookSecret,
			BaseURL:       c.config.UberBaseURL,
			AuthURL:       c.config.UberAuthURL,
			Scope:         c.config.UberScope,
		}, c.jobQueue, c.logger),
	}
}

// CreateHTTPServer wires every endpoint to its handler.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateSubmitOrderCommandHandler(),
		c.CreateConfirmOrderCommandHandler(),
		c.CreateBatchOrdersCommandHandler(),
		c.CreateQuoteDeliveryCommandHandler(),
		c.CreateCreateDeliveryCommandHandler(),
		c.CreateCancelDeliveryCommandHandler(),
		c.CreateGetUnbatchedOrdersQueryHandler(),
		c.CreateGetDeliveryStatusQueryHandler(),
		c.CreateAdapterRegistry(),
	)
}

// CreateJobManager wires the scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateBatchOrdersCommandHandler(), c.logger)
}

// CreateDeliveryUpdateConsumer wires the status reconciler worker.
func (c *CompositionRoot) CreateDeliveryUpdateConsumer() *queue.Consumer {
	return queue.NewDeliveryUpdateConsumer(
		c.rabbit, c.CreateApplyDeliveryUpdateCommandHandler(), c.logger,
	)
}

// CreateBatchLockConsumer wires the batch-lock worker.
func (c *CompositionRoot) CreateBatchLockConsumer() *queue.Consumer {
	handler := c.CreateBatchOrdersCommandHandler()
	return queue.NewBatchLockConsumer(c.rabbit, &handler, c.logger)
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncBatchUoWFactory func() commands.BatchUoW

func (f FuncBatchUoWFactory) Create() commands.BatchUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncReconcileUoWFactory func() commands.ReconcileUoW

func (f FuncReconcileUoWFactory) Create() commands.ReconcileUoW {
	return f()
}
