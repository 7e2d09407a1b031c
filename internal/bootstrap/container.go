package bootstrap

import (
	"log"

	"notevault-be/internal/config"
	"notevault-be/internal/controller"
	"notevault-be/internal/pkg/logger"
	"notevault-be/internal/pkg/serverutils"
	"notevault-be/internal/repository/unitofwork"
	"notevault-be/internal/service"

	pktNats "notevault-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	NoteController controller.INoteController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (best effort, services tolerate a nil publisher)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Events.NoteActivityTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Events.NoteActivityTopic,
		uowFactory,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, natsPub, cfg.Auth.JWTSecret)
	noteService := service.NewNoteService(
		uowFactory,
		authService,
		publisherService,
		natsPub,
		sysLogger,
	)

	// 4. Controllers
	jwtMiddleware := serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret)
	return &Container{
		AuthController: controller.NewAuthController(authService),
		NoteController: controller.NewNoteController(noteService, jwtMiddleware),

		ConsumerService: consumerService,
	}
}
