package testutil

import (
	"encoding/json"
	"testing"
)

func TestEntryOmitsNilFigures(t *testing.T) {
	figures := HealthyEntry()
	figures.NetRevenue = nil
	figures.ShortTermBorrowings = nil

	entry := figures.Entry()

	if entry["nature"] != "STANDALONE" {
		t.Errorf("expected nature STANDALONE, got %v", entry["nature"])
	}

	lineItems := entry["pnl"].(map[string]interface{})["lineItems"].(map[string]interface{})
	if _, ok := lineItems["net_revenue"]; ok {
		t.Error("expected net_revenue to be omitted")
	}
	if lineItems["interest"] != 1_000_000.0 {
		t.Errorf("expected interest 1000000, got %v", lineItems["interest"])
	}

	liabilities := entry["bs"].(map[string]interface{})["liabilities"].(map[string]interface{})
	if _, ok := liabilities["short_term_borrowings"]; ok {
		t.Error("expected short_term_borrowings to be omitted")
	}
	if liabilities["long_term_borrowings"] != 1_000_000.0 {
		t.Errorf("expected long_term_borrowings 1000000, got %v", liabilities["long_term_borrowings"])
	}
}

func TestPayloadJSON(t *testing.T) {
	raw := PayloadJSON(HealthyEntry(), nil, map[string]interface{}{"nature": "CONSOLIDATED"})

	var decoded struct {
		Data struct {
			Financials []map[string]interface{} `json:"financials"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if len(decoded.Data.Financials) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(decoded.Data.Financials))
	}
	if decoded.Data.Financials[1] != nil {
		t.Errorf("expected nil second entry, got %v", decoded.Data.Financials[1])
	}
	if decoded.Data.Financials[2]["nature"] != "CONSOLIDATED" {
		t.Errorf("expected raw entry to pass through, got %v", decoded.Data.Financials[2])
	}
}

func TestPayloadEmpty(t *testing.T) {
	payload := Payload()
	financials := payload["data"].(map[string]interface{})["financials"].([]interface{})
	if len(financials) != 0 {
		t.Fatalf("expected empty financials, got %v", financials)
	}
}
