// Package events publishes activity events so other consumers (feeds,
// notifications) can react without the service calling them directly.
package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectPlaceCreated  = "places.created"
	SubjectPlaceUpdated  = "places.updated"
	SubjectPlaceDeleted  = "places.deleted"
	SubjectPlaceLiked    = "places.liked"
	SubjectFriendAdded   = "friends.added"
	SubjectFriendRemoved = "friends.removed"
)

type Publisher interface {
	Publish(subject string, payload any)
}

// Noop is used when NATS_URL is not configured.
type Noop struct{}

func (Noop) Publish(string, any) {}

type NATSPublisher struct {
	conn *nats.Conn
}

// ConnectNATS retries a few times so the service survives the broker
// coming up after it in compose setups.
func ConnectNATS(url string) (*NATSPublisher, error) {
	var conn *nats.Conn
	var err error
	for i := 0; i < 10; i++ {
		conn, err = nats.Connect(url)
		if err == nil {
			return &NATSPublisher{conn: conn}, nil
		}
		log.Printf("Waiting for NATS to be ready... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

func (p *NATSPublisher) Publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal event for %s: %v", subject, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("Failed to publish event to %s: %v", subject, err)
	}
}

func (p *NATSPublisher) Close() {
	p.conn.Close()
}
