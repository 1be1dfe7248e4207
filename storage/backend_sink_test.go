package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"openhouse-aggregator/models"
	"openhouse-aggregator/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func testBatch() []*models.CanonicalListing {
	return []*models.CanonicalListing{
		{Source: "mock", Address: "123 Main St, San Francisco, Ca", Price: 120_000_000},
		{Source: "mock", Address: "789 Mission St, San Francisco, Ca", Price: 95_000_000},
	}
}

func TestSendPayloadShape(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody bulkPayload

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	sink := NewBackendSink(ts.URL+"/", newTestLogger()) // trailing slash must not double up

	if err := sink.Send(context.Background(), testBatch()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/api/v1/listings/bulk" {
		t.Errorf("request = %s %s; want POST /api/v1/listings/bulk", gotMethod, gotPath)
	}
	if gotBody.Source != "data-ingestion" {
		t.Errorf("source tag = %q; want data-ingestion", gotBody.Source)
	}
	if len(gotBody.Listings) != 2 {
		t.Errorf("payload carried %d listings; want 2", len(gotBody.Listings))
	}
}

func TestSendNon200IsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	sink := NewBackendSink(ts.URL, newTestLogger())
	if err := sink.Send(context.Background(), testBatch()); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestSendConnectionRefusedIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // dead endpoint

	sink := NewBackendSink(ts.URL, newTestLogger())
	if err := sink.Send(context.Background(), testBatch()); err == nil {
		t.Error("expected error on refused connection")
	}
}

func TestTestConnection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("probe hit %s; want /health", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	sink := NewBackendSink(ts.URL, newTestLogger())
	if err := sink.TestConnection(context.Background()); err != nil {
		t.Errorf("healthy backend reported unreachable: %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	sink = NewBackendSink(down.URL, newTestLogger())
	if err := sink.TestConnection(context.Background()); err == nil {
		t.Error("expected error on unhealthy backend")
	}
}
