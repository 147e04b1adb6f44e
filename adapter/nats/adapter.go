// Package nats provides restream async sources over NATS JetStream consumers.
//
// A JetStream consumer becomes an AsyncSource that can be shared, forked,
// and branched, with each message fetched and acknowledged exactly once no
// matter how many readers consume the sequence.
package nats

import (
	"context"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/tinylib/msgp/msgp"

	"github.com/arloliu/restream"
	"github.com/arloliu/restream/types"
)

// Config configures a consumer source.
type Config struct {
	// FetchMaxWait is the maximum time a single fetch round waits for a
	// message before returning empty.
	// Default: 5 seconds
	FetchMaxWait time.Duration

	// EndOnIdle reports end of sequence after a fetch round returns no
	// messages, instead of fetching again.
	//
	// JetStream streams are open-ended, so by default Pull keeps fetching
	// until a message arrives or the context is cancelled. Enable this for
	// draining a stream with a known, already-published tail.
	// Default: false
	EndOnIdle bool
}

// DefaultConfig returns the default consumer source configuration.
func DefaultConfig() Config {
	return Config{
		FetchMaxWait: 5 * time.Second,
	}
}

// Option configures a consumer source.
type Option func(*Config)

// WithFetchMaxWait sets the maximum wait per fetch round.
//
// Parameters:
//   - d: Maximum wait duration
//
// Returns:
//   - Option: Configuration option
func WithFetchMaxWait(d time.Duration) Option {
	return func(c *Config) {
		c.FetchMaxWait = d
	}
}

// WithEndOnIdle sets whether an empty fetch round ends the sequence.
//
// Parameters:
//   - end: true to report end of sequence on an idle fetch
//
// Returns:
//   - Option: Configuration option
func WithEndOnIdle(end bool) Option {
	return func(c *Config) {
		c.EndOnIdle = end
	}
}

// msgSource pulls and acknowledges one message per call.
type msgSource struct {
	consumer jetstream.Consumer
	config   Config
}

// New creates an AsyncSource over a JetStream consumer.
//
// Each Pull fetches a single message and acknowledges it. Fetch errors are
// surfaced as faults. The consumer's delivery order gives the sequence
// order. The source assumes sole ownership of the consumer's deliveries;
// fetching from the same consumer elsewhere interleaves and breaks replay.
//
// Parameters:
//   - consumer: The JetStream consumer to fetch from
//   - opts: Optional configuration (WithFetchMaxWait, WithEndOnIdle)
//
// Returns:
//   - restream.AsyncSource[jetstream.Msg]: A source yielding one message per pull
func New(consumer jetstream.Consumer, opts ...Option) restream.AsyncSource[jetstream.Msg] {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &msgSource{consumer: consumer, config: config}
}

// Pull fetches the next message.
func (s *msgSource) Pull(ctx context.Context) (jetstream.Msg, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := s.consumer.Fetch(1, jetstream.FetchMaxWait(s.config.FetchMaxWait))
		if err != nil {
			return nil, err
		}

		for msg := range batch.Messages() {
			if err := msg.Ack(); err != nil {
				return nil, err
			}

			return msg, nil
		}

		if err := batch.Error(); err != nil {
			return nil, err
		}

		if s.config.EndOnIdle {
			return nil, types.ErrEndOfSequence
		}
	}
}

// msgpPtr constrains P to a pointer to T implementing msgp.Unmarshaler.
type msgpPtr[T any] interface {
	*T
	msgp.Unmarshaler
}

// Msgp creates an AsyncSource decoding MessagePack payloads into T.
//
// Each fetched message's payload is unmarshalled into a fresh T; a decode
// error is surfaced as a fault and, because the engine stores faults
// terminally, stops the sequence for every reader.
//
// Example:
//
//	//msgp:generate
//	type Event struct { ... }
//
//	src := natsadapter.Msgp[Event](consumer)
//	shared := restream.ShareAsync(src)
//
// Parameters:
//   - consumer: The JetStream consumer to fetch from
//   - opts: Optional configuration (WithFetchMaxWait, WithEndOnIdle)
//
// Returns:
//   - restream.AsyncSource[T]: A source yielding one decoded T per message
func Msgp[T any, P msgpPtr[T]](consumer jetstream.Consumer, opts ...Option) restream.AsyncSource[T] {
	raw := New(consumer, opts...)

	return restream.AsyncSourceFunc[T](func(ctx context.Context) (T, error) {
		var value T

		msg, err := raw.Pull(ctx)
		if err != nil {
			return value, err
		}

		if _, err := P(&value).UnmarshalMsg(msg.Data()); err != nil {
			return value, err
		}

		return value, nil
	})
}
