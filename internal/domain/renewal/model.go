package renewal

// ItemError reports a contract whose renewal failed.
type ItemError struct {
	ContractID string `json:"contractId"`
	Error      string `json:"error"`
}

// Summary is the result of one renewal run.
type Summary struct {
	Success      bool        `json:"success"`
	Date         string      `json:"date"`
	TotalExpired int         `json:"totalExpired"`
	Renewed      int         `json:"renewed"`
	RenewedIDs   []string    `json:"renewedIds"`
	Skipped      int         `json:"skipped"`
	Errors       []ItemError `json:"errors,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// Failed builds the summary reported when a run aborts before finishing.
func Failed(date string, err error) Summary {
	return Summary{Success: false, Date: date, RenewedIDs: []string{}, Error: err.Error()}
}
