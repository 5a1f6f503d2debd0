package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "time"

    "github.com/nats-io/nats.go"
)

// NATS subjects for seat map updates.
const (
    SubjectSeatsReserved = "seats.reserved"
    SubjectSeatsReleased = "seats.released"
)

// NATSPublisher broadcasts reservation events on NATS subjects so that live
// seat maps can be refreshed.
type NATSPublisher struct {
    conn *nats.Conn
}

// ConnectNATS dials the NATS server at url with reconnect handling.
func ConnectNATS(url, name string) (*NATSPublisher, error) {
    if url == "" {
        url = nats.DefaultURL
    }
    opts := []nats.Option{
        nats.Name(name),
        nats.MaxReconnects(-1),
        nats.ReconnectWait(2 * time.Second),
        nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
            log.Printf("nats: disconnected: %v", err)
        }),
        nats.ReconnectHandler(func(nc *nats.Conn) {
            log.Printf("nats: reconnected to %s", nc.ConnectedUrl())
        }),
    }
    nc, err := nats.Connect(url, opts...)
    if err != nil {
        return nil, err
    }
    if !nc.IsConnected() {
        nc.Close()
        return nil, fmt.Errorf("nats: connection to %s not established", url)
    }
    return &NATSPublisher{conn: nc}, nil
}

// Subject returns the subject an event of the given type is published on.
func Subject(eventType string) string {
    if eventType == TypeReservationCancelled {
        return SubjectSeatsReleased
    }
    return SubjectSeatsReserved
}

// Notify publishes ev on the subject matching its type.
func (p *NATSPublisher) Notify(_ context.Context, ev ReservationEvent) error {
    data, err := json.Marshal(ev)
    if err != nil {
        return err
    }
    if err := p.conn.Publish(Subject(ev.Type), data); err != nil {
        log.Printf("nats: publish %s failed: %v", ev.Type, err)
        return err
    }
    return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
    return p.conn.Drain()
}
