// Package notify fans committed board commands out to other processes over Redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskorium-cli/internal/board"
	"taskorium-cli/internal/store"
)

const DefaultChannel = "taskorium:commits"

const publishTimeout = 2 * time.Second

// Message is the JSON document published for every commit.
type Message struct {
	Workspace string            `json:"workspace"`
	Origin    string            `json:"origin"`
	Event     board.CommitEvent `json:"event"`
}

// NewClient builds a client from a redis:// URL.
func NewClient(cfg *store.RedisConfig) (*redis.Client, string, error) {
	if cfg == nil || strings.TrimSpace(cfg.URL) == "" {
		return nil, "", errors.New("notify: redis url not configured")
	}
	opts, err := redis.ParseURL(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, "", err
	}
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return redis.NewClient(opts), channel, nil
}

type Publisher struct {
	rc        *redis.Client
	channel   string
	workspace string
	origin    string
	log       log.FieldLogger
}

func NewPublisher(rc *redis.Client, channel, workspace string, l log.FieldLogger) *Publisher {
	if l == nil {
		l = log.StandardLogger()
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		rc:        rc,
		channel:   channel,
		workspace: workspace,
		origin:    uuid.NewString(),
		log:       l,
	}
}

// Origin identifies this process in published messages so listeners can skip their own commits.
func (p *Publisher) Origin() string { return p.origin }

// Publish sends ev. Failures are returned, never retried.
func (p *Publisher) Publish(ctx context.Context, ev board.CommitEvent) error {
	b, err := json.Marshal(Message{Workspace: p.workspace, Origin: p.origin, Event: ev})
	if err != nil {
		return err
	}
	return p.rc.Publish(ctx, p.channel, b).Err()
}

// Observer adapts the publisher to board.Subscribe. Publish errors are logged and dropped.
func (p *Publisher) Observer() board.Observer {
	return func(ev board.CommitEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.Publish(ctx, ev); err != nil {
			p.log.WithError(err).WithFields(log.Fields{"channel": p.channel, "cmd": ev.Type}).Warn("publish commit failed")
		}
	}
}

// Listen delivers messages for workspace published by other processes until ctx is done.
// It resubscribes if the pub/sub channel closes.
func Listen(ctx context.Context, rc *redis.Client, channel, workspace, origin string, l log.FieldLogger, fn func(Message)) {
	if l == nil {
		l = log.StandardLogger()
	}
	for {
		sub := rc.Subscribe(ctx, channel)
		ch := sub.Channel()
	recv:
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				var m Message
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					l.WithError(err).Warn("unable to parse commit message")
					continue
				}
				if m.Workspace != workspace || m.Origin == origin {
					continue
				}
				fn(m)
			}
		}
		_ = sub.Close()
		if ctx.Err() != nil {
			return
		}
		l.Warn("pubsub channel closed, resubscribing")
		time.Sleep(time.Second)
	}
}

// LogObserver logs every commit at info level.
func LogObserver(l log.FieldLogger) board.Observer {
	return func(ev board.CommitEvent) {
		l.WithFields(log.Fields{"cmd": ev.Type, "entity": ev.EntityID}).Info("commit")
	}
}
