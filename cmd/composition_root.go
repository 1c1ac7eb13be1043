package cmd

import (
	"log/slog"
	"os"
	"time"

	"marketplace/internal/adapters/out/catalog"
	"marketplace/internal/adapters/out/courierdir"
	"marketplace/internal/adapters/out/kafkabus"
	"marketplace/internal/adapters/out/paymentgw"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/outboxrepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/jobs"

	"gorm.io/gorm"
)

const defaultCollaboratorTimeout = 5 * time.Second

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	paymentVerifier  *paymentgw.Client
	courierDirectory *courierdir.Client
	productCatalog   *catalog.Client
	eventPublisher   *kafkabus.KafkaEventPublisher

	logger *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) CompositionRoot {
	timeout := defaultCollaboratorTimeout
	if configs.CollaboratorTimeout != "" {
		if parsed, err := time.ParseDuration(configs.CollaboratorTimeout); err == nil {
			timeout = parsed
		}
	}

	return CompositionRoot{
		gormDB:           gormDB,
		uowFactory:       *postgres.NewGormUnitOfWorkFactory(gormDB),
		paymentVerifier:  paymentgw.NewClient(configs.PaymentServiceURL, timeout),
		courierDirectory: courierdir.NewClient(configs.CourierServiceURL, timeout),
		productCatalog:   catalog.NewClient(configs.CatalogServiceURL, timeout),
		eventPublisher: kafkabus.NewKafkaEventPublisher(
			[]string{configs.KafkaHost}, configs.KafkaOrderEventsTopic),
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.productCatalog)
}

func (c *CompositionRoot) CreateSubmitPaymentReferenceCommandHandler() commands.SubmitPaymentReferenceCommandHandler {
	return commands.NewSubmitPaymentReferenceCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.orderUoWFactory(), c.paymentVerifier)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.orderUoWFactory(), c.courierDirectory)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	return commands.NewMarkDeliveredCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateConfirmReceiptCommandHandler() commands.ConfirmReceiptCommandHandler {
	return commands.NewConfirmReceiptCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnassignedOrdersQueryHandler() queries.GetUnassignedOrdersQueryHandler {
	return queries.NewGetUnassignedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		outboxrepo.NewGormOutboxRepository(c.gormDB),
		c.eventPublisher,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
