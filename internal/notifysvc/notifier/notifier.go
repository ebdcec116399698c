// Package notifier delivers rendered notifications. The interface exists so
// the delivery channel (email, SMS, push) can change without touching the
// event consumer.
package notifier

import (
	log "github.com/sirupsen/logrus"
)

type Notifier interface {
	Notify(subject, message string) error
}

// LogNotifier writes notifications to the service log.
type LogNotifier struct{}

func NewLog() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(subject, message string) error {
	log.Infof("[notify] %s :: %s", subject, message)
	return nil
}
