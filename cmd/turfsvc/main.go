package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"

	config "github.com/openturf/turf-services/configs"
	nats "github.com/openturf/turf-services/internal/nats"
	"github.com/openturf/turf-services/internal/turfsvc/broker"
	"github.com/openturf/turf-services/internal/turfsvc/cache"
	"github.com/openturf/turf-services/internal/turfsvc/db"
	handlers "github.com/openturf/turf-services/internal/turfsvc/handlers"
	"github.com/openturf/turf-services/internal/turfsvc/service"
	"github.com/openturf/turf-services/internal/turfsvc/store"
)

const SERVICE_NAME = "turf"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	events := broker.NewBroker(n.Conn)

	// Redis slot cache; the service degrades to uncached reads without it.
	var slots service.SlotCache
	rdb, err := cache.Connect()
	if err != nil {
		log.Warnf("redis unavailable, slot listings uncached: %v", err)
	} else {
		defer rdb.Close()
		slots = cache.NewSlotCache(rdb)
		log.Printf("redis connection established successfully")
	}

	turfStore := store.NewTurfStore(dbpool)
	turfService := service.NewTurfService(turfStore)

	userStore := store.NewUserStore(dbpool)
	userService := service.NewUserService(userStore)

	bookingStore := store.NewBookingStore(dbpool)
	bookingService := service.NewBookingService(bookingStore, turfStore, slots, events)

	gameStore := store.NewGameStore(dbpool)
	gameService := service.NewGameService(gameStore, turfStore, events)

	// live websocket event feed
	feed := handlers.NewFeed()
	subs, err := feed.Subscribe(n.Conn)
	if err != nil {
		log.Errorf("Error: unable to subscribe event feed %v", err)
		os.Exit(0)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(bookingService, gameService, turfService, userService, feed)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("TURF_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	for _, sub := range subs {
		sub.Unsubscribe()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
