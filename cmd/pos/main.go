package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"
	"github.com/appetiteclub/apt/seed"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/smileworld/ktvpos/internal/billing"
	"github.com/smileworld/ktvpos/internal/catalog"
	"github.com/smileworld/ktvpos/internal/mongo"
	"github.com/smileworld/ktvpos/internal/reports"
	"github.com/smileworld/ktvpos/internal/rooms"
	"github.com/smileworld/ktvpos/internal/sale"
	"github.com/smileworld/ktvpos/pkg"
)

const (
	appNamespace = "POS"
	appName      = "pos"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	counters := mongo.NewCounters(db)
	itemRepo := mongo.NewMenuItemRepo(db, counters)
	categoryRepo := mongo.NewCategoryRepo(db)
	roomRepo := mongo.NewRoomRepo(db, counters)
	draftRepo := mongo.NewDraftRepo(db)
	saleRepo := mongo.NewSaleRepo(db)
	stockTxRepo := mongo.NewStockTransactionRepo(db)

	if err := itemRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("%s(%s) cannot prepare menu item indexes: %v", appName, appVersion, err)
	}
	if err := saleRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("%s(%s) cannot prepare sale indexes: %v", appName, appVersion, err)
	}

	// The POS stays usable without a broker; events are dropped when nats.url
	// is unset.
	var publisher events.Publisher = pkg.NoopPublisher{}
	var publisherLifecycle apt.LifecycleHooks
	natsURL := config.GetStringOrDef("nats.url", "")
	if natsURL != "" {
		pub, err := pkg.NewNATSPublisher(natsURL)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
		}
		publisher = pub
		publisherLifecycle = apt.LifecycleHooks{
			OnStop: func(context.Context) error {
				return pub.Close()
			},
		}
	} else {
		logger.Info("nats.url not set, events will not be published")
	}

	stockService := catalog.NewStockService(itemRepo, stockTxRepo, publisher, logger)
	catalogReader := catalog.NewReader(itemRepo)
	roomService := rooms.NewService(roomRepo, publisher, logger)

	billingService := billing.NewService(billing.ServiceDeps{
		Sales:     saleRepo,
		Items:     itemRepo,
		Stock:     stockService,
		Drafts:    draftRepo,
		Rooms:     roomService,
		Publisher: publisher,
		Logger:    logger,
	})

	sessionStore := sale.NewSessionStore(sale.Deps{
		Catalog:  catalogReader,
		Drafts:   draftRepo,
		Checkout: billingService,
		Logger:   logger,
	}, roomService, logger)

	reportService := reports.NewService(saleRepo, roomRepo, itemRepo, logger)

	saleHandler := sale.NewHandler(sale.HandlerDeps{
		Store:   sessionStore,
		Catalog: catalogReader,
		Rooms:   roomService,
	}, config, logger)
	catalogHandler := catalog.NewHandler(itemRepo, categoryRepo, stockTxRepo, stockService, config, logger)
	roomHandler := rooms.NewHandler(roomRepo, roomService, config, logger)
	billingHandler := billing.NewHandler(billingService, config, logger)
	reportHandler := reports.NewHandler(reportService, config, logger)

	demoEnabled, _ := config.GetString("seeding.demo")
	var seedHooks apt.LifecycleHooks
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled")
		seedHooks = apt.LifecycleHooks{
			OnStart: demoSeedingFunc(db, logger),
		}
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})
	stack = append(stack, middleware.InternalOnly())

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
	}
	if natsURL != "" {
		lifecycles = append(lifecycles, publisherLifecycle)
	}
	if demoEnabled == "true" {
		lifecycles = append(lifecycles, seedHooks)
	}

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", saleHandler, catalogHandler, roomHandler, billingHandler, reportHandler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func demoSeedingFunc(db *mongodriver.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		tracker := seed.NewMongoTracker(db)

		seeds := catalog.Seeds(db)
		seeds = append(seeds, rooms.Seeds(db)...)

		if err := seed.Apply(ctx, tracker, seeds, appName); err != nil {
			logger.Errorf("Demo seeding failed: %v", err)
			return nil
		}
		logger.Info("Demo seeding completed")
		return nil
	}
}
