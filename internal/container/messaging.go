package container

import (
	"errors"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/bookmarks/internal/audit"
	auditstore "github.com/serroba/bookmarks/internal/audit/store"
	"github.com/serroba/bookmarks/internal/messaging"
	"go.uber.org/zap"
)

// AuditConsumerGroup is the Redis stream consumer group shared by every
// audit consumer process.
const AuditConsumerGroup = "audit"

// PublisherGroupPackage provides the audit publishers. Events go to Redis
// streams when a Redis address is set and to an in-process channel otherwise.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		wmLogger := messaging.NewLoggerAdapter(logger)

		if opts.RedisAddr == "" {
			return messaging.NewPublisherGroup(gochannel.NewGoChannel(gochannel.Config{}, wmLogger)), nil
		}

		client := do.MustInvoke[*RedisClient](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client.Client,
		}, wmLogger)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (audit.Publishers, error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return audit.NewPublishers(group.Publisher()), nil
	})
}

// ConsumerGroupPackage provides the audit consumers writing to the log sink.
// Without Redis they subscribe to the in-process channel of the publishers.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := newSubscriber(i, opts, logger)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)

		for _, consumer := range audit.NewConsumers(subscriber, auditstore.NewLog(logger), logger) {
			group.Add(consumer)
		}

		return group, nil
	})
}

func newSubscriber(i *do.Injector, opts *Options, logger *zap.Logger) (message.Subscriber, error) {
	if opts.RedisAddr == "" {
		publishers := do.MustInvoke[*messaging.PublisherGroup](i)

		subscriber, ok := publishers.Publisher().(message.Subscriber)
		if !ok {
			return nil, errors.New("in-process publisher cannot be subscribed to")
		}

		return subscriber, nil
	}

	client := do.MustInvoke[*RedisClient](i)

	return redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client.Client,
		ConsumerGroup: AuditConsumerGroup,
	}, messaging.NewLoggerAdapter(logger))
}
