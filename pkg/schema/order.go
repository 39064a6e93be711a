package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const OrderSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "order",
	"fields": [
		{"name": "order_id", "type": "string"},
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
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "name_en", "type": "string"},
					{"name": "name_ar", "type": "string"},
					{"name": "platform", "type": "string"},
					{"name": "unit_usd", "type": "string"},
					{"name": "unit_dzd", "type": "long"},
					{"name": "quantity", "type": "int"}
				]
			}
		}},
		{"name": "total_usd", "type": "string"},
		{"name": "total_dzd", "type": "long"},
		{"name": "placed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type (
	OrderV1 struct {
		OrderID  string        `avro:"order_id"`
		Customer CustomerV1    `avro:"customer"`
		Items    []OrderItemV1 `avro:"items"`
		TotalUSD string        `avro:"total_usd"`
		TotalDZD int64         `avro:"total_dzd"`
		PlacedAt time.Time     `avro:"placed_at"`
	}

	CustomerV1 struct {
		Name    string `avro:"name"`
		Email   string `avro:"email"`
		Phone   string `avro:"phone"`
		State   string `avro:"state"`
		Address string `avro:"address"`
		Notes   string `avro:"notes"`
	}

	// UnitUSD keeps the exact decimal text of the price.
	OrderItemV1 struct {
		ProductID string `avro:"product_id"`
		NameEn    string `avro:"name_en"`
		NameAr    string `avro:"name_ar"`
		Platform  string `avro:"platform"`
		UnitUSD   string `avro:"unit_usd"`
		UnitDZD   int64  `avro:"unit_dzd"`
		Quantity  int    `avro:"quantity"`
	}
)

func OrderV1Avro() avro.Schema {
	return avro.MustParse(OrderSchemaTextV1)
}
