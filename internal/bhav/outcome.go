package bhav

import "nse-bhav/internal/models"

// Status classifies the result of one archive fetch attempt.
type Status int

const (
	// StatusData means the archive was retrieved and parsed.
	StatusData Status = iota
	// StatusNoData means the exchange served a non-200 response: holiday,
	// weekend, not-yet-published, or server error. Expected and benign
	// inside a date range.
	StatusNoData
	// StatusTransientError means the fetch mechanism itself failed:
	// timeout, corrupt archive, network fault.
	StatusTransientError
)

func (s Status) String() string {
	switch s {
	case StatusData:
		return "data"
	case StatusNoData:
		return "no-data"
	case StatusTransientError:
		return "transient-error"
	}
	return "unknown"
}

// Outcome is the typed result of one fetch attempt. It is produced once
// per date and never persisted, only aggregated into run counters.
type Outcome struct {
	Status  Status
	Reason  string
	Records []models.Record
	RawRows int
}

// DataOutcome builds a successful outcome.
func DataOutcome(records []models.Record, rawRows int) Outcome {
	return Outcome{Status: StatusData, Records: records, RawRows: rawRows}
}

// NoDataOutcome builds an expected-absence outcome.
func NoDataOutcome(reason string) Outcome {
	return Outcome{Status: StatusNoData, Reason: reason}
}

// TransientOutcome builds a fetch-mechanism-failure outcome.
func TransientOutcome(reason string) Outcome {
	return Outcome{Status: StatusTransientError, Reason: reason}
}
