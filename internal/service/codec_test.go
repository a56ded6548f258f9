package service

import (
	"strings"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestJSONCodec_AmountsAreNumbers(t *testing.T) {
	var codec jsonCodec

	data, err := codec.Marshal(&models.Split{UserID: "alice", Amount: d("33.34")})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"amount":33.34`) {
		t.Errorf("Expected unquoted amount, got %s", data)
	}

	for _, body := range []string{`{"userId":"bob","amount":12.5}`, `{"userId":"bob","amount":"12.5"}`} {
		var split models.Split
		if err := codec.Unmarshal([]byte(body), &split); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", body, err)
		}
		if !split.Amount.Equal(d("12.5")) {
			t.Errorf("Unmarshal(%s) amount = %s, want 12.5", body, split.Amount)
		}
	}
}
