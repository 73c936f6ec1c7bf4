package model

import (
	"encoding/json"
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    Price
		wantErr bool
	}{
		{in: "12.99", want: 12.99},
		{in: " 8 ", want: 8},
		{in: "-5", want: -5},
		{in: "NaN", wantErr: true},
		{in: "nan", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "-Infinity", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrice_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Price
		wantErr bool
	}{
		{name: "string", body: `{"price":"12.99"}`, want: 12.99},
		{name: "number", body: `{"price":12.5}`, want: 12.5},
		{name: "null", body: `{"price":null}`},
		{name: "NaN string", body: `{"price":"NaN"}`, wantErr: true},
		{name: "Inf string", body: `{"price":"Inf"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Price Price `json:"price"`
			}
			err := json.Unmarshal([]byte(tt.body), &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Price != tt.want {
				t.Errorf("Price = %v, want %v", v.Price, tt.want)
			}
		})
	}
}
