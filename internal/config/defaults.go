package config

const (
	// EnvAPIKey is the environment variable holding the BLS registration key.
	EnvAPIKey = "BLS_API_KEY"

	DefaultBaseURL           = "https://api.bls.gov/publicAPI/v2"
	DefaultStartYear         = 2020
	DefaultDataFile          = "bls_data.csv"
	DefaultMergePolicy       = "exact"
	DefaultRequestsPerSecond = 1.0
)

// DefaultSeriesIDs are the seasonally adjusted CPS and CES series collected
// when no list is configured.
var DefaultSeriesIDs = []string{
	"LNS11000000",
	"LNS12000000",
	"LNS13000000",
	"LNS14000000",
	"CES0000000001",
	"CES0500000002",
	"CES0500000007",
	"CES0500000003",
	"CES0500000008",
}
