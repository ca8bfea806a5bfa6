package models

// PostOrderRequestV1 represents an order submitted against API version 1
type PostOrderRequestV1 struct {
	ProductCode string `json:"ProductCode" validate:"required"`
	Quantity    int    `json:"Quantity" validate:"min=0"`
	Address     string `json:"Address" validate:"required"`
}

// PostOrderRequestV2 represents an order submitted against API version 2.
// The free-form address of version 1 is split into coded country and city
// plus a detail line.
type PostOrderRequestV2 struct {
	ProductCode   string `json:"ProductCode" validate:"required"`
	Quantity      int    `json:"Quantity" validate:"min=0"`
	Country       int    `json:"Country" validate:"min=0"`
	City          int    `json:"City" validate:"min=0"`
	AddressDetail string `json:"AddressDetail" validate:"required"`
}

// OrderResponse is returned for an accepted order regardless of API version
type OrderResponse struct {
	ProductCode string `json:"ProductCode"`
	Quantity    int    `json:"Quantity"`
	Address     string `json:"Address"`
}
