package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a decimal amount. It decodes from either a JSON string or a JSON
// number and always encodes as a string.
type Price float64

func (p Price) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode price: %w", err)
		}
		raw = strings.TrimSpace(s)
	}

	v, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePrice parses a decimal amount such as "12.99". NaN and infinities are
// rejected; the sign is left to callers.
func ParsePrice(s string) (Price, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return Price(v), nil
}
