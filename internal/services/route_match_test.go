package services

import "testing"

func TestAddressCityResolver(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"12 Main Street, Bulawayo, Zimbabwe", "Bulawayo"},
		{"Plot 4, Gweru", "Plot 4"},
		{"Mutare", "Mutare"},
		{"  Kwekwe  ", "Kwekwe"},
		{"5 Kings Road, Masvingo, ", "Masvingo"},
		{"Chinhoyi,", "Chinhoyi"},
		{"", ""},
		{" , ", ""},
	}
	var r AddressCityResolver
	for _, tt := range tests {
		if got := r.ResolveCity(tt.address); got != tt.want {
			t.Errorf("ResolveCity(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}
