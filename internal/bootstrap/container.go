package bootstrap

import (
	"log"

	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/controller"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/mailer"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/repository/memory"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/internal/service"

	"ai-imagegen-be/pkg/gateway"
	"ai-imagegen-be/pkg/imagegen"
	pktNats "ai-imagegen-be/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	UserController     controller.IUserController
	ChatController     controller.IChatController
	ImageJobController controller.IImageJobController
	PaymentController  controller.IPaymentController

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// NATS event publisher; the API works without it, events are
	// best-effort.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	stateRepo := memory.NewStateRepository()

	providerFactory := imagegen.NewFactory(cfg.Providers)
	gatewayFactory := gateway.NewFactory(cfg.Gateways, cfg.App.ClientURL)

	// Services
	authService := service.NewAuthService(uowFactory, emailService, natsPub, cfg.JWT, cfg.Providers.InitialCredits, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, stateRepo, cfg.OAuth, cfg.JWT, cfg.Providers.InitialCredits, sysLogger)
	userService := service.NewUserService(uowFactory)
	chatService := service.NewChatService(uowFactory)
	imageJobService := service.NewImageJobService(uowFactory, providerFactory, natsPub, cfg.Providers.ImageCost, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, gatewayFactory, emailService, natsPub, sysLogger)

	jwtMiddleware := serverutils.NewJwtMiddleware(cfg.JWT.Secret)

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		OAuthController:    controller.NewOAuthController(oauthService),
		UserController:     controller.NewUserController(userService, jwtMiddleware),
		ChatController:     controller.NewChatController(chatService, jwtMiddleware),
		ImageJobController: controller.NewImageJobController(imageJobService, jwtMiddleware),
		PaymentController:  controller.NewPaymentController(paymentService, jwtMiddleware, sysLogger),

		Logger: sysLogger,
	}
}
