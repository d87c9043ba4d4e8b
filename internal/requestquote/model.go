// Package requestquote integrates the upstream request-quote source system.
// It fetches flat request records by id and maps them into the enriched
// wizard seed used when a new draft is created.
package requestquote

import "time"

// Record is the flat request payload returned by the upstream source.
type Record struct {
	ID               string     `json:"id"`
	ClientNumber     string     `json:"clientNumber"`
	CompanyName      string     `json:"companyName"`
	ContactName      string     `json:"contactName"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	PickupCity       string     `json:"pickupCity"`
	PickupCountry    string     `json:"pickupCountry"`
	PickupAddress    string     `json:"pickupAddress,omitempty"`
	PickupPostalCode string     `json:"pickupPostalCode,omitempty"`
	DeliveryCity     string     `json:"deliveryCity"`
	DeliveryCountry  string     `json:"deliveryCountry"`
	DeliveryAddress  string     `json:"deliveryAddress,omitempty"`
	DeliveryPostal   string     `json:"deliveryPostalCode,omitempty"`
	CargoType        int        `json:"cargoType"`
	Quantity         int        `json:"quantity"`
	WeightKg         float64    `json:"weightKg"`
	Dimensions       string     `json:"dimensions,omitempty"`
	Hazmat           bool       `json:"hazmat"`
	Temperature      bool       `json:"temperatureControlled"`
	Fragile          bool       `json:"fragile"`
	SpecialHandling  string     `json:"specialHandling,omitempty"`
	ProductName      string     `json:"productName,omitempty"`
	Incoterm         string     `json:"incoterm,omitempty"`
	TransportMode    string     `json:"transportMode,omitempty"`
	PickupDate       *time.Time `json:"pickupDate,omitempty"`
	DeliveryDate     *time.Time `json:"deliveryDate,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	Comment          string     `json:"additionalComments,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}
