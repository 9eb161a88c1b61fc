package client

// Venue REST endpoint constants.
const (
	EndpointTime         = "/api/v3/time"
	EndpointExchangeInfo = "/api/v3/exchangeInfo"
	EndpointTickerPrice  = "/api/v3/ticker/price"
	EndpointAccount      = "/api/v3/account"
	EndpointOpenOrders   = "/api/v3/openOrders"
	EndpointOrder        = "/api/v3/order"
	EndpointOrderOCO     = "/api/v3/order/oco"
)
