package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"openhouse-aggregator/models"
	"openhouse-aggregator/storage"
	"openhouse-aggregator/utils"
)

func newTestServer() *httptest.Server {
	srv := New(storage.NewMemoryStore(), utils.NewLogger())
	return httptest.NewServer(srv.Handler())
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func postBulk(t *testing.T, ts *httptest.Server, listings []*models.CanonicalListing) map[string]any {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"listings": listings,
		"source":   "data-ingestion",
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(ts.URL+"/api/v1/listings/bulk", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bulk upload status = %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestBulkThenListRoundTrip(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	out := postBulk(t, ts, []*models.CanonicalListing{
		{
			Source:        "mock",
			Address:       "123 Market St, San Francisco, Ca",
			Price:         120_000_000, // cents
			Beds:          iptr(2),
			Baths:         fptr(2),
			OpenHouseTime: "Sat 1-4pm",
			Description:   "Beautiful downtown condo",
			Latitude:      fptr(37.7812),
			Longitude:     fptr(-122.4102),
		},
		{
			Source:  "mock",
			Address: "456 Valencia St, San Francisco, Ca",
			Price:   95_000_000,
			// No beds/baths/coords/time: defaults apply.
		},
	})

	if out["status"] != "success" {
		t.Fatalf("bulk response = %v", out)
	}
	if out["total_listings"].(float64) != 2 {
		t.Errorf("total_listings = %v; want 2", out["total_listings"])
	}

	resp, err := http.Get(ts.URL + "/api/v1/open-houses")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var listResp struct {
		OpenHouses []*models.StoredListing `json:"open_houses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		t.Fatal(err)
	}
	if len(listResp.OpenHouses) != 2 {
		t.Fatalf("got %d open houses; want 2", len(listResp.OpenHouses))
	}

	first := listResp.OpenHouses[0]
	if first.Price != 1_200_000 {
		t.Errorf("price = %d dollars; want 1200000 (cents converted)", first.Price)
	}
	if first.Latitude != 37.7812 {
		t.Errorf("latitude = %v", first.Latitude)
	}

	second := listResp.OpenHouses[1]
	if second.Latitude != 37.7749 || second.Longitude != -122.4194 {
		t.Errorf("missing coordinates should default to SF center: %v, %v",
			second.Latitude, second.Longitude)
	}
	if second.OpenHouseTime != "TBD" {
		t.Errorf("missing open house time should default to TBD: %q", second.OpenHouseTime)
	}
	if second.Beds != 0 || second.Baths != 0 {
		t.Errorf("missing beds/baths should default to 0: %d, %v", second.Beds, second.Baths)
	}
}

func TestBulkReplacesPreviousListings(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	postBulk(t, ts, []*models.CanonicalListing{
		{Address: "Old Listing", Price: 100_000_000},
	})
	postBulk(t, ts, []*models.CanonicalListing{
		{Address: "New Listing", Price: 200_000_000},
	})

	resp, err := http.Get(ts.URL + "/api/v1/open-houses")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var listResp struct {
		OpenHouses []*models.StoredListing `json:"open_houses"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&listResp)

	if len(listResp.OpenHouses) != 1 {
		t.Fatalf("got %d open houses; each upload is a full refresh", len(listResp.OpenHouses))
	}
	if listResp.OpenHouses[0].Address != "New Listing" {
		t.Errorf("old data survived the refresh: %q", listResp.OpenHouses[0].Address)
	}
}

func TestClearEndpoint(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	postBulk(t, ts, []*models.CanonicalListing{
		{Address: "1 First St", Price: 100_000_000},
	})

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/listings/clear", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if out["message"] != "Cleared 1 listings" {
		t.Errorf("clear message = %q", out["message"])
	}
}

func TestHealthAndRoot(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var health map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&health)
	if health["status"] != "healthy" {
		t.Errorf("health = %v", health)
	}

	resp2, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()

	var root map[string]string
	_ = json.NewDecoder(resp2.Body).Decode(&root)
	if root["message"] != "Open House Finder API" {
		t.Errorf("root = %v", root)
	}
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/open-houses")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q; want *", got)
	}

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/listings/bulk", nil)
	preflight, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer preflight.Body.Close()

	if preflight.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d; want 204", preflight.StatusCode)
	}
}

func TestBulkMalformedBody(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/listings/bulk", "application/json",
		bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if out["status"] != "error" {
		t.Errorf("malformed body should yield an error status, got %v", out)
	}
}
