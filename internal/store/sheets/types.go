package sheets

// valueRange mirrors the Sheets values API payload for both reads and appends.
type valueRange struct {
	Range  string  `json:"range,omitempty"`
	Values [][]any `json:"values"`
}

// appendResponse is the subset of the append reply we care about.
type appendResponse struct {
	SpreadsheetID string `json:"spreadsheetId"`
	Updates       struct {
		UpdatedRows int `json:"updatedRows"`
	} `json:"updates"`
}
