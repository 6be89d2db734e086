package bls

import (
	"encoding/json"
	"strings"
)

// TimeseriesRequest is the JSON body of a v2 timeseries query.
type TimeseriesRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey"`
}

// TimeseriesResponse represents the BLS API response for a timeseries query.
// Results is nil when the API did not process the request.
type TimeseriesResponse struct {
	Status       string      `json:"status"`
	ResponseTime int         `json:"responseTime"`
	Message      messageList `json:"message"`
	Results      *struct {
		Series []SeriesData `json:"series"`
	} `json:"Results"`
}

// SeriesData holds the observations of one series.
type SeriesData struct {
	SeriesID string        `json:"seriesID"`
	Data     []Observation `json:"data"`
}

// Observation is a single period value as the API reports it.
type Observation struct {
	Year       string `json:"year"`
	Period     string `json:"period"`
	PeriodName string `json:"periodName"`
	Latest     string `json:"latest,omitempty"`
	Value      string `json:"value"`
}

// messageList accepts both the documented array form and a bare string.
type messageList []string

func (m *messageList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single != "" {
		*m = messageList{single}
	}
	return nil
}

func (m messageList) String() string {
	return strings.Join(m, "; ")
}
