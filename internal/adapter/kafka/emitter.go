package kafka

import (
	"context"
	"crypto/tls"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.ProductRequestEmitter = (*ProductRequestEmitter)(nil)

// A productRequestCodec used for serde [schema.ProductRequestV1]
type productRequestCodec struct {
	serde Serde
}

func (c productRequestCodec) Encode(v any) ([]byte, error) {
	const op = "productRequestCodec.Encode"
	if _, ok := v.(schema.ProductRequestV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c productRequestCodec) Decode(data []byte) (any, error) {
	const op = "productRequestCodec.Decode"
	var s schema.ProductRequestV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// TLSEmitterOpt makes the emitter dial brokers over TLS.
func TLSEmitterOpt(tlsConfig *tls.Config) goka.EmitterOption {
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsConfig
	return goka.WithEmitterProducerBuilder(goka.ProducerBuilderWithConfig(cfg))
}

// A ProductRequestEmitter emits [domain.ProductRequest] to a goka stream
// keyed by request id.
type ProductRequestEmitter struct {
	ge *goka.Emitter
}

func NewProductRequestEmitter(
	seedBrokers []string, stream string, serde Serde, opts ...goka.EmitterOption,
) (ProductRequestEmitter, error) {
	const op = "NewProductRequestEmitter"

	ge, err := goka.NewEmitter(
		seedBrokers, goka.Stream(stream), productRequestCodec{serde}, opts...,
	)
	if err != nil {
		return ProductRequestEmitter{}, opErr(err, op)
	}
	return ProductRequestEmitter{ge}, nil
}

func (e ProductRequestEmitter) EmitProductRequest(
	ctx context.Context, r domain.ProductRequest,
) error {
	const op = "ProductRequestEmitter.EmitProductRequest"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := e.ge.EmitSync(r.ID, productRequestToSchemaV1(r)); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (e ProductRequestEmitter) Close() {
	const op = "ProductRequestEmitter.Close"
	log := slog.With("op", op)

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
