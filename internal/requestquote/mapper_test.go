package requestquote

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDimensionsVolume(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"standard format", "2.5m x 1.5m x 1.2m", "4.5"},
		{"no unit suffix", "2 x 3 x 4", "24"},
		{"malformed text", "n/a", "0"},
		{"empty", "", "0"},
		{"two parts only", "2m x 3m", "0"},
		{"non numeric part", "2m x abc x 4m", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDimensionsVolume(tt.input)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("ParseDimensionsVolume(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNearestPort(t *testing.T) {
	tests := []struct {
		city    string
		country string
		want    string
	}{
		{"Lyon", "FR", "Le Havre"},
		{"Paris", "FR", "Le Havre"},
		{"Marseille", "FR", "Marseille"},
		{"Douala", "CM", "Douala"},
		{"Anvers", "BE", "Antwerp"},
		{"Utrecht", "NL", "Rotterdam"},
		{"Stuttgart", "DE", "Hamburg"},
		{"Oslo", "NO", "Oslo"},
	}

	for _, tt := range tests {
		if got := NearestPort(tt.city, tt.country); got != tt.want {
			t.Errorf("NearestPort(%q, %q) = %q, want %q", tt.city, tt.country, got, tt.want)
		}
	}
}

func TestContainerTypeForCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "20DV"},
		{1, "CONVENTIONAL"},
		{2, "RORO"},
		{7, "20DV"},
		{-1, "20DV"},
	}

	for _, tt := range tests {
		if got := ContainerTypeForCode(tt.code); got != tt.want {
			t.Errorf("ContainerTypeForCode(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestMapSeedsCargoAndPorts(t *testing.T) {
	m := NewMapper("FR")
	rec := &Record{
		ID:            "rq-1",
		CompanyName:   "Acme Shipping",
		PickupCity:    "Lyon",
		PickupCountry: "FR",
		DeliveryCity:  "Douala",
		DeliveryCountry: "CM",
		CargoType:     1,
		Quantity:      0,
		WeightKg:      1200,
		Dimensions:    "2.5m x 1.5m x 1.2m",
		Hazmat:        true,
	}

	seed := m.Map(rec)

	if seed.RoutingAndCargo.PortOfLoading != "Le Havre" {
		t.Errorf("port of loading = %q, want Le Havre", seed.RoutingAndCargo.PortOfLoading)
	}
	if seed.RoutingAndCargo.PortOfDestination != "Douala" {
		t.Errorf("port of destination = %q, want Douala", seed.RoutingAndCargo.PortOfDestination)
	}
	if len(seed.RoutingAndCargo.Cargo) != 1 {
		t.Fatalf("expected 1 cargo item, got %d", len(seed.RoutingAndCargo.Cargo))
	}

	cargo := seed.RoutingAndCargo.Cargo[0]
	if cargo.ContainerType != "CONVENTIONAL" {
		t.Errorf("container type = %q, want CONVENTIONAL", cargo.ContainerType)
	}
	if cargo.Quantity != 1 {
		t.Errorf("quantity = %d, want 1 (zero input is clamped)", cargo.Quantity)
	}
	if !cargo.VolumeM3.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("volume = %s, want 4.5", cargo.VolumeM3)
	}
	if !cargo.Hazmat {
		t.Error("expected hazmat flag to carry over")
	}
	if seed.GeneralRequestInformation.Priority != "high" {
		t.Errorf("priority = %q, want high for hazmat cargo", seed.GeneralRequestInformation.Priority)
	}
}
