package countries

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestIsSupported(t *testing.T) {
	for _, code := range []string{"US", "GB", "AU", "DK", "CA", "SE", "NO", "FR", "AT", "MX", "BE", "IE", "NE", "NZ", "ES"} {
		if !IsSupported(code) {
			t.Errorf("expected %s to be supported", code)
		}
	}
	if !IsSupported("gb") {
		t.Error("lookup must be case-insensitive")
	}
	for _, code := range []string{"ZZ", "DE", ""} {
		if IsSupported(code) {
			t.Errorf("expected %s to be unsupported", code)
		}
	}
}

func TestGet(t *testing.T) {
	c, ok := Get("GB")
	if !ok {
		t.Fatal("expected GB")
	}
	if c.Name != "United Kingdom" || c.Currency != "GBP" || c.Symbol != "£" {
		t.Errorf("unexpected country %+v", c)
	}
	if !c.SupportsBankPayouts {
		t.Error("GB supports bank payouts")
	}
}

func TestSupportedList(t *testing.T) {
	list := SupportedList()
	if len(list) != 15 {
		t.Fatalf("expected 15 countries, got %d", len(list))
	}
	found := false
	for _, o := range list {
		if o.Value == "DK" && o.Label == "Denmark" {
			found = true
		}
		if o.Value == "" || o.Label == "" {
			t.Errorf("incomplete option %+v", o)
		}
	}
	if !found {
		t.Error("expected {DK Denmark} in the list")
	}
}

func TestCodeByName(t *testing.T) {
	code, err := CodeByName("united kingdom")
	if err != nil {
		t.Fatal(err)
	}
	if code != "GB" {
		t.Errorf("got %q, want GB", code)
	}
	if _, err := CodeByName("Atlantis"); err == nil {
		t.Error("expected error for unknown country")
	}
}

func TestCurrencyByName(t *testing.T) {
	currency, err := CurrencyByName("Sweden")
	if err != nil {
		t.Fatal(err)
	}
	if currency != "SEK" {
		t.Errorf("got %q, want SEK", currency)
	}
}

func TestSymbolByCurrency(t *testing.T) {
	symbol, err := SymbolByCurrency("gbp")
	if err != nil {
		t.Fatal(err)
	}
	if symbol != "£" {
		t.Errorf("got %q, want £", symbol)
	}
	if _, err := SymbolByCurrency("XXX"); err == nil {
		t.Error("expected error for unknown currency")
	}
}

func TestFiscalYearByCode(t *testing.T) {
	fy, err := FiscalYearByCode("gb")
	if err != nil {
		t.Fatal(err)
	}
	if fy.Start.Month != time.April || fy.Start.Day != 6 {
		t.Errorf("unexpected GB fiscal start %+v", fy.Start)
	}
	if fy.End.Month != time.April || fy.End.Day != 5 {
		t.Errorf("unexpected GB fiscal end %+v", fy.End)
	}
	if _, err := FiscalYearByCode("ZZ"); err == nil {
		t.Error("expected error for unsupported code")
	}
}

func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	NewHandlers().RegisterRoutes(r)
	return r
}

func TestHandlers_Supported(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/countries/supported", nil)
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Message   string   `json:"message"`
		Countries []Option `json:"countries"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "Successfully collected countries" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(resp.Countries) != 15 {
		t.Errorf("expected 15 countries, got %d", len(resp.Countries))
	}
}

func TestHandlers_FiscalYear(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/countries/AU/fiscal-year", nil)
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		FiscalYear FiscalYear `json:"fiscalYear"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.FiscalYear.Start.Month != time.July || resp.FiscalYear.Start.Day != 1 {
		t.Errorf("unexpected AU fiscal start %+v", resp.FiscalYear.Start)
	}
}

func TestHandlers_FiscalYear_Unsupported(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/countries/ZZ/fiscal-year", nil)
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
