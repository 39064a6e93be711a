package domain

type Tab string

const (
	TabHome      Tab = "home"
	TabAvailable Tab = "available"
	TabExternal  Tab = "external"
	TabRequest   Tab = "request"
)

func (t Tab) Valid() bool {
	switch t {
	case TabHome, TabAvailable, TabExternal, TabRequest:
		return true
	}
	return false
}

// An Origin narrows a unified listing to one product variant.
type Origin string

const (
	OriginAll      Origin = "all"
	OriginLocal    Origin = "local"
	OriginExternal Origin = "external"
)

func (o Origin) Valid() bool {
	switch o {
	case OriginAll, OriginLocal, OriginExternal:
		return true
	}
	return false
}

type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
	SortNewest    SortOrder = "newest"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortDefault, SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return true
	}
	return false
}

type CheckoutStatus string

const (
	CheckoutIdle       CheckoutStatus = "idle"
	CheckoutSubmitting CheckoutStatus = "submitting"
)

// A CheckoutOutcome records how the last finished submission ended.
type CheckoutOutcome string

const (
	OutcomeNone      CheckoutOutcome = "none"
	OutcomeSucceeded CheckoutOutcome = "succeeded"
	OutcomeFailed    CheckoutOutcome = "failed"
)
