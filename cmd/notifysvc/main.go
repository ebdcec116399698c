package main

import (
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"

	config "github.com/openturf/turf-services/configs"
	nats "github.com/openturf/turf-services/internal/nats"
	"github.com/openturf/turf-services/internal/notifysvc/notifier"
	"github.com/openturf/turf-services/internal/notifysvc/worker"
)

const SERVICE_NAME = "notify"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	consumer := worker.NewConsumer(n.Conn, notifier.NewLog())
	if err := consumer.Subscribe(); err != nil {
		log.Errorf("Error: unable to subscribe to events %v", err)
		os.Exit(0)
	}
	log.Infof("%s service consuming booking and game events", SERVICE_NAME)

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	consumer.Unsubscribe()
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
