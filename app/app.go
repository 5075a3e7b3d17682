package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"kidsclub/config"
	"kidsclub/pkg/cache"
	"kidsclub/pkg/consts"
	controllersLib "kidsclub/pkg/controllers"
	"kidsclub/pkg/metrics"
	"kidsclub/pkg/middlewares"
	repoLib "kidsclub/pkg/repo"
	"kidsclub/pkg/repo/driver/gateway"
	"kidsclub/pkg/repo/driver/medium"
	"kidsclub/pkg/repo/driver/sms"
	"kidsclub/pkg/repo/driver/store"
	"kidsclub/pkg/usecases"
	"kidsclub/utilities"
	"kidsclub/utilities/jwt"
)

func Run() {
	ctx := context.Background()
	ctx, cancelFn := context.WithCancel(ctx)

	// init the env config
	conf, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("unable to initialize environment variables %s", err.Error())
	}

	// Initialise the logger
	utilities.InitLogger(conf.LogLevel)
	log := utilities.NewLogger("run")

	log.Infof("Initialising %s store", conf.Store.Driver)
	kv, err := store.New(ctx, conf)
	if err != nil {
		log.WithError(err).Fatal("unable to initialise store")
	}
	defer kv.Close()

	log.Info("Initialising providers")
	smsSender, err := sms.NewSender(ctx, conf.SMS)
	if err != nil {
		log.WithError(err).Fatal("unable to initialise sms provider")
	}
	paymentGateway := gateway.NewGateway(conf.Yukassa)
	bridge := medium.NewBridge(conf)
	if err = bridge.Initialize(ctx); err != nil {
		log.WithError(err).Fatal("failed to initialise messaging bridge")
	}
	log.Infof("sms: %s, push: %s, payments demo: %v", smsSender.Name(), bridge.Name(), paymentGateway.Demo())

	signer := jwt.NewSigner(conf.JWT.Secret, utilities.ToDuration(conf.JWT.TTL, 7*24*time.Hour))
	m := metrics.NewMetrics(consts.AppName)

	// here initalizing the router
	if conf.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := initRouter(conf, m)

	api := router.Group(conf.Server.APIPrefix)

	notificationWS := medium.NewWebSocket()

	{
		// repo initialization
		otpRepo := repoLib.NewOTPRepo(kv)
		profileRepo := repoLib.NewProfileRepo(kv)
		notificationRepo := repoLib.NewNotificationRepo(kv)
		catalogRepo := repoLib.NewCatalogRepo(kv)
		repo := repoLib.NewRepo(kv)

		log.Info("Initialising subscriber cache")
		subscribers := cache.NewSubscriberCache(profileRepo)
		if err = subscribers.Init(ctx); err != nil {
			log.WithError(err).Fatal("unable to load notification subscribers")
		}

		// initializing usecases
		otpUsecases := usecases.NewOTPUsecases(
			otpRepo, profileRepo, smsSender, signer, m, usecases.NewOTPSettings(conf),
		)
		paymentUsecases := usecases.NewPaymentUsecases(
			paymentGateway, gateway.NewDemoGateway(conf.Yukassa.Currency), m,
		)
		notificationUsecases := usecases.NewNotificationUsecases(
			profileRepo, notificationRepo, bridge, notificationWS, subscribers, m, usecases.NewEngineSettings(conf),
		)
		catalogUsecases := usecases.NewCatalogUsecases(catalogRepo)
		profileUsecases := usecases.NewProfileUsecases(profileRepo, catalogRepo, notificationUsecases.Subscribe)
		useCases := usecases.NewUseCases(repo)

		log.Info("Initialising notification scheduler")
		usecases.NotificationScheduler(
			ctx, notificationUsecases, utilities.ToDuration(conf.Notifications.Interval, time.Minute),
		)
		usecases.SentLogPruner(
			ctx, notificationUsecases, utilities.ToDuration(conf.Notifications.PruneInterval, 24*time.Hour),
		)

		// initializing middleware
		mw := middlewares.NewMiddlewares(signer, conf)

		// initializing controllersLib
		smsControllers := controllersLib.NewSMSController(api, otpUsecases, mw)
		paymentControllers := controllersLib.NewPaymentController(api, paymentUsecases, mw)
		notificationControllers := controllersLib.NewNotificationController(
			api, notificationUsecases, notificationWS, mw, conf.Server.AllowedOrigins,
		)
		profileControllers := controllersLib.NewProfileController(api, profileUsecases, mw)
		catalogControllers := controllersLib.NewCatalogController(api, catalogUsecases, mw)
		controllers := controllersLib.NewController(api, useCases, mw)

		// init the routes
		smsControllers.InitRoutes()
		paymentControllers.InitRoutes()
		notificationControllers.InitRoutes(ctx)
		profileControllers.InitRoutes()
		catalogControllers.InitRoutes()
		controllers.InitRoutes()
	}

	// run the app
	launch(ctx, cancelFn, router)
}

func initRouter(conf *config.KidsClubConfModel, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Logger(),
		controllersLib.Recovery(),
		cors.New(
			cors.Config{
				AllowOrigins: conf.Server.AllowedOrigins,
				AllowMethods: []string{"PUT", "PATCH", "POST", "DELETE", "GET", "OPTIONS"},
				AllowHeaders: []string{
					"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept",
					"origin", "Cache-Control",
				},
				MaxAge: 12 * time.Hour,
			},
		),
		m.Middleware(),
	)

	router.GET("/metrics", m.Handler())

	router.Use(gzip.Gzip(gzip.DefaultCompression))

	return router
}

// launch
func launch(ctx context.Context, cancelFn context.CancelFunc, router *gin.Engine) {
	log := utilities.NewLogger("launch")
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.GetConfig().Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	log.Infof("Server listening in... %d", config.GetConfig().Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown Server ...")
	// stops the scheduler, the pruner and the websocket ping loops
	cancelFn()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server Shutdown")
	}
	log.Println("Server exiting")
}
