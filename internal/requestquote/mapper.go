package requestquote

import (
	"fmt"
	"strconv"
	"strings"

	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/platform/phone"

	"github.com/shopspring/decimal"
)

// Numeric cargo-type codes used by the upstream source.
var containerTypeByCode = map[int]string{
	0: "20DV",
	1: "CONVENTIONAL",
	2: "RORO",
}

const defaultContainerType = "20DV"

// Fixed nearest-major-port lookup. City overrides take precedence over
// country defaults; anything unmatched falls back to the city itself.
// Best-effort heuristic, not authoritative geodata.
var portByCity = map[string]string{
	"lyon":      "Le Havre",
	"paris":     "Le Havre",
	"marseille": "Marseille",
}

var portByCountry = map[string]string{
	"CM": "Douala",
	"BE": "Antwerp",
	"NL": "Rotterdam",
	"DE": "Hamburg",
}

// Mapper converts upstream request records into wizard seed data.
type Mapper struct {
	phoneRegion string
}

// NewMapper creates a mapper. phoneRegion is the default region for
// normalizing phone numbers without a country prefix.
func NewMapper(phoneRegion string) *Mapper {
	return &Mapper{phoneRegion: phoneRegion}
}

// Map builds the enriched wizard seed from an upstream record.
func (m *Mapper) Map(rec *Record) *repository.EnrichedWizardData {
	qty := rec.Quantity
	if qty < 1 {
		qty = 1
	}

	cargo := repository.CargoItem{
		ContainerType:    ContainerTypeForCode(rec.CargoType),
		Quantity:         qty,
		GrossWeightKg:    decimal.NewFromFloat(rec.WeightKg),
		VolumeM3:         ParseDimensionsVolume(rec.Dimensions),
		Hazmat:           rec.Hazmat,
		GoodsDescription: rec.ProductName,
	}

	return &repository.EnrichedWizardData{
		GeneralRequestInformation: repository.GeneralRequestInformation{
			Channel:  rec.TransportMode,
			Priority: priorityFor(rec),
			Notes:    buildNotes(rec, m.phoneRegion),
		},
		RoutingAndCargo: repository.RoutingAndCargo{
			PortOfLoading:     NearestPort(rec.PickupCity, rec.PickupCountry),
			PortOfDestination: NearestPort(rec.DeliveryCity, rec.DeliveryCountry),
			Cargo:             []repository.CargoItem{cargo},
		},
	}
}

// ContainerTypeForCode maps an upstream cargo-type code to a container type.
func ContainerTypeForCode(code int) string {
	if t, ok := containerTypeByCode[code]; ok {
		return t
	}
	return defaultContainerType
}

// NearestPort resolves city+country to a major port using the fixed
// lookup tables. Unmatched input returns the city name unchanged.
func NearestPort(city, country string) string {
	if p, ok := portByCity[strings.ToLower(strings.TrimSpace(city))]; ok {
		return p
	}
	if p, ok := portByCountry[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return p
	}
	return strings.TrimSpace(city)
}

// ParseDimensionsVolume parses a free-text dimension string of the form
// "<L>m x <W>m x <H>m" into a volume in cubic meters. Malformed input
// yields zero without an error.
func ParseDimensionsVolume(dims string) decimal.Decimal {
	parts := strings.Split(dims, "x")
	if len(parts) != 3 {
		return decimal.Zero
	}

	volume := 1.0
	for _, part := range parts {
		raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "m"))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return decimal.Zero
		}
		volume *= v
	}

	return decimal.NewFromFloat(volume)
}

func priorityFor(rec *Record) string {
	if rec.Hazmat || rec.Temperature || rec.Fragile {
		return "high"
	}
	return "normal"
}

func buildNotes(rec *Record, phoneRegion string) string {
	var b strings.Builder

	if rec.CompanyName != "" {
		fmt.Fprintf(&b, "Client: %s", rec.CompanyName)
		if rec.ContactName != "" {
			fmt.Fprintf(&b, " (%s)", rec.ContactName)
		}
		b.WriteString("\n")
	}
	if rec.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", phone.NormalizeE164(rec.Phone, phoneRegion))
	}
	if rec.Incoterm != "" {
		fmt.Fprintf(&b, "Incoterm: %s\n", rec.Incoterm)
	}
	if rec.SpecialHandling != "" {
		fmt.Fprintf(&b, "Special handling: %s\n", rec.SpecialHandling)
	}
	if len(rec.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(rec.Tags, ", "))
	}
	if rec.Comment != "" {
		b.WriteString(rec.Comment)
	}

	return strings.TrimRight(b.String(), "\n")
}
