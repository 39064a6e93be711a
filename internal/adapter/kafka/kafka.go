// Package kafka publishes accepted orders and product requests to the
// broker.
package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt connects a client to seedBrokers that produces to
// topic. A nil tlsConfig keeps the connection in plain text.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsConfig *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		}
		if tlsConfig != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsConfig))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerWithClientOpt uses an already built client.
func ProducerWithClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func customerToSchemaV1(c domain.Customer) schema.CustomerV1 {
	return schema.CustomerV1{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		State:   c.State,
		Address: c.Address,
		Notes:   c.Notes,
	}
}

func orderToSchemaV1(v domain.Order) (s schema.OrderV1) {
	s.OrderID = v.ID
	s.Customer = customerToSchemaV1(v.Customer)
	s.TotalUSD = v.Total.USD.String()
	s.TotalDZD = v.Total.DZD
	s.PlacedAt = v.PlacedAt

	s.Items = make([]schema.OrderItemV1, len(v.Items))
	for i, it := range v.Items {
		s.Items[i] = schema.OrderItemV1{
			ProductID: it.ProductID,
			NameEn:    it.Name.En,
			NameAr:    it.Name.Ar,
			Platform:  string(it.Platform),
			UnitUSD:   it.Price.USD.String(),
			UnitDZD:   it.Price.DZD,
			Quantity:  it.Quantity,
		}
	}
	return
}

func productRequestToSchemaV1(v domain.ProductRequest) (s schema.ProductRequestV1) {
	s.RequestID = v.ID
	s.ProductName = v.ProductName
	s.ProductURL = v.ProductURL
	s.ProductDescription = v.ProductDescription
	s.Customer = customerToSchemaV1(v.Customer)
	s.RequestedAt = v.RequestedAt
	return
}
