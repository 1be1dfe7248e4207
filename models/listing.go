package models

// RawListing is an unvalidated record as produced by a source adapter.
// Adapters own text-to-number parsing, so numeric fields are pointers:
// nil means the source had nothing parseable. No invariants hold here.
type RawListing struct {
	Source        string
	Address       string
	Price         *float64 // cents, as parsed
	Beds          *int
	Baths         *float64
	OpenHouseTime string
	Description   string
	Latitude      *float64
	Longitude     *float64
	ListingURL    string
}

// CanonicalListing is the validated, normalized record. One is only ever
// produced when Address is non-empty and Price passed the range check;
// every other field may be absent. JSON tags match the backend wire format.
type CanonicalListing struct {
	Source        string   `json:"source"`
	Address       string   `json:"address"`
	Price         int64    `json:"price"` // cents
	Beds          *int     `json:"beds"`
	Baths         *float64 `json:"baths"`
	OpenHouseTime string   `json:"open_house_time"`
	Description   string   `json:"description"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ListingURL    string   `json:"listing_url,omitempty"`
}

// StoredListing is the consumer-side record served by the query API.
// Price is whole dollars; absent coordinates and open-house times get
// defaults at ingest so the map front end always has something to render.
type StoredListing struct {
	ID            int64   `json:"id"`
	Address       string  `json:"address"`
	Price         int64   `json:"price"` // dollars
	Beds          int     `json:"beds"`
	Baths         float64 `json:"baths"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	OpenHouseTime string  `json:"open_house_time"`
	Description   string  `json:"description"`
}

// RunStatus is the terminal state of one pipeline run.
type RunStatus int

const (
	RunSuccess RunStatus = iota // every scraped record accepted and delivered
	RunPartial                  // some records rejected, delivery succeeded
	RunFailed                   // zero valid records, or delivery failed
)

func (s RunStatus) String() string {
	switch s {
	case RunSuccess:
		return "success"
	case RunPartial:
		return "partial"
	default:
		return "failed"
	}
}

// RunReport summarises one pipeline run.
type RunReport struct {
	Status    RunStatus
	Attempted int
	Accepted  int
	Batch     []*CanonicalListing
	Message   string
}
