package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jan = Record{SeriesID: "LNS14000000", Year: "2021", Period: "M01", PeriodName: "January", Value: "6.3"}
	feb = Record{SeriesID: "LNS14000000", Year: "2021", Period: "M02", PeriodName: "February", Value: "6.0"}
	mar = Record{SeriesID: "LNS14000000", Year: "2021", Period: "M03", PeriodName: "March", Value: "6.1"}
)

func TestMerge_ConcreteExample(t *testing.T) {
	existing := Set{jan}
	candidate := Set{jan, feb}

	merged, dropped := Merge(existing, candidate, PolicyExact)

	assert.Equal(t, Set{jan, feb}, merged)
	assert.Equal(t, 1, dropped)
}

func TestMerge_ExistingRowsComeFirst(t *testing.T) {
	existing := Set{mar, jan}
	candidate := Set{feb, jan}

	merged, _ := Merge(existing, candidate, PolicyExact)

	assert.Equal(t, Set{mar, jan, feb}, merged)
}

func TestMerge_Idempotent(t *testing.T) {
	candidate := Set{jan, feb, mar}

	once, _ := Merge(Set{}, candidate, PolicyExact)
	twice, dropped := Merge(once, candidate, PolicyExact)

	assert.Equal(t, once, twice)
	assert.Equal(t, len(candidate), dropped)
}

func TestMerge_Union(t *testing.T) {
	existing := Set{jan, feb}
	candidate := Set{feb, mar}

	merged, dropped := Merge(existing, candidate, PolicyExact)

	require.Len(t, merged, 3)
	assert.ElementsMatch(t, Set{jan, feb, mar}, merged)
	assert.Equal(t, 1, dropped)
}

func TestMerge_RevisedValueKeptAsSeparateRow(t *testing.T) {
	revised := jan
	revised.Value = "6.4"

	merged, dropped := Merge(Set{jan}, Set{revised}, PolicyExact)

	assert.Equal(t, Set{jan, revised}, merged)
	assert.Zero(t, dropped)
}

func TestMerge_DuplicatesInsideCandidate(t *testing.T) {
	merged, dropped := Merge(Set{feb}, Set{jan, jan}, PolicyExact)

	assert.Equal(t, Set{feb, jan}, merged)
	assert.Equal(t, 1, dropped)
}

func TestMerge_LatestPolicy(t *testing.T) {
	revised := jan
	revised.Value = "6.4"

	merged, dropped := Merge(Set{jan, feb}, Set{revised, mar}, PolicyLatest)

	assert.Equal(t, Set{revised, feb, mar}, merged)
	assert.Equal(t, 1, dropped)
}

func TestMerge_EmptyInputs(t *testing.T) {
	merged, dropped := Merge(nil, nil, PolicyExact)
	assert.Empty(t, merged)
	assert.Zero(t, dropped)

	merged, dropped = Merge(nil, nil, PolicyLatest)
	assert.Empty(t, merged)
	assert.Zero(t, dropped)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{"", PolicyExact, false},
		{"exact", PolicyExact, false},
		{"latest", PolicyLatest, false},
		{"newest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecord_Key(t *testing.T) {
	revised := jan
	revised.Value = "9.9"
	assert.Equal(t, jan.Key(), revised.Key())
	assert.NotEqual(t, jan.Key(), feb.Key())
}
