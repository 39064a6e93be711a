package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const ProductRequestSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.requests",
	"name": "product_request",
	"fields": [
		{"name": "request_id", "type": "string"},
		{"name": "product_name", "type": "string"},
		{"name": "product_url", "type": "string"},
		{"name": "product_description", "type": "string"},
		{"name": "customer", "type": {
			"type": "record",
			"name": "customer",
			"fields": [
				{"name": "name", "type": "string"},
				{"name": "email", "type": "string"},
				{"name": "phone", "type": "string"},
				{"name": "state", "type": "string"},
				{"name": "address", "type": "string"},
				{"name": "notes", "type": "string"}
			]
		}},
		{"name": "requested_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type ProductRequestV1 struct {
	RequestID          string     `avro:"request_id"`
	ProductName        string     `avro:"product_name"`
	ProductURL         string     `avro:"product_url"`
	ProductDescription string     `avro:"product_description"`
	Customer           CustomerV1 `avro:"customer"`
	RequestedAt        time.Time  `avro:"requested_at"`
}

func ProductRequestV1Avro() avro.Schema {
	return avro.MustParse(ProductRequestSchemaTextV1)
}
