package api

import (
	"strings"
	"testing"
)

func TestJSONCodecAmountsAreStrings(t *testing.T) {
	c := JSONCodec{}

	data, err := c.Marshal(&CreateOrderRequest{Recipient: "coffee.tapngo.eth", AmountFiat: 18446744073709551615, PaymentType: "vendor"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"amount_fiat":"18446744073709551615"`) {
		t.Errorf("amount not encoded as a string: %s", data)
	}

	var req CreateOrderRequest
	if err := c.Unmarshal([]byte(`{"recipient":"0xabc","amount_fiat":"2500000","payment_type":"p2p"}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.AmountFiat != 2_500_000 {
		t.Errorf("AmountFiat = %d, want 2500000", req.AmountFiat)
	}

	if err := c.Unmarshal([]byte(`{"amount_fiat":2500000}`), &req); err == nil {
		t.Error("expected bare numeric amount to be rejected")
	}

	var empty GetSupplyRequest
	if err := c.Unmarshal(nil, &empty); err != nil {
		t.Errorf("empty body should decode, got %v", err)
	}
}
