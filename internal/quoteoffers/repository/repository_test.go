package repository

import "testing"

func TestResolveSortFieldWhitelist(t *testing.T) {
	tests := []struct {
		sortBy string
		want   string
	}{
		{"updatedAt", "updatedAt"},
		{"clientNumber", "clientNumber"},
		{"quoteOfferNumber", "quoteOfferNumber"},
		{"status", "status"},
		{"", "createdDate"},
		{"createdDate", "createdDate"},
		{"doc; DROP TABLE quote_offers", "createdDate"},
		{"emailUser", "createdDate"},
	}

	for _, tt := range tests {
		if got := resolveSortField(tt.sortBy); got != tt.want {
			t.Errorf("resolveSortField(%q) = %q, want %q", tt.sortBy, got, tt.want)
		}
	}
}
