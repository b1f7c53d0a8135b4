package logql

import (
	"encoding/json"

	"cephlog-mcp/internal/constants"
)

// Query is the canonical query document sent to the cluster log API.
// The time window is expressed either as a trailing HoursBack or as an
// explicit Start/End pair of unix seconds, never both.
type Query struct {
	Where     *Node
	Search    string
	HoursBack float64
	Start     int64
	End       int64
	Limit     int
}

type queryJSON struct {
	Where     *Node   `json:"where,omitempty"`
	Search    string  `json:"_search,omitempty"`
	HoursBack float64 `json:"hours_back,omitempty"`
	Start     int64   `json:"start,omitempty"`
	End       int64   `json:"end,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// MarshalJSON emits the canonical wire document. Field order is fixed,
// and Node serialization is deterministic, so equal queries always
// produce identical bytes.
func (q *Query) MarshalJSON() ([]byte, error) {
	return json.Marshal(queryJSON(*q))
}

// Key returns the canonical serialized form used for cache equality.
// Two queries are the same query exactly when their keys match.
func (q *Query) Key() string {
	b, err := q.MarshalJSON()
	if err != nil {
		// Only a non-serializable operand can get here, and those are
		// rejected at parse time. An unkeyable query must never collide.
		return "unkeyable:" + err.Error()
	}
	return string(b)
}

// Validate checks window and limit ranges and fills defaults. It
// mutates q: a zero limit becomes DefaultLogLimit, an absent window
// becomes the default trailing hour, and out-of-range values are
// clamped to their maxima.
func (q *Query) Validate() error {
	if q.Limit < 0 {
		return &ValidationError{Path: "limit", Msg: "must not be negative"}
	}
	if q.Limit == 0 {
		q.Limit = constants.DefaultLogLimit
	}
	if q.Limit > constants.MaxLogEntries {
		q.Limit = constants.MaxLogEntries
	}

	if q.HoursBack < 0 {
		return &ValidationError{Path: "hours_back", Msg: "must not be negative"}
	}
	if q.HoursBack > constants.MaxHoursBack {
		q.HoursBack = constants.MaxHoursBack
	}

	explicit := q.Start != 0 || q.End != 0
	if explicit {
		if q.HoursBack != 0 {
			return &ValidationError{Path: "hours_back", Msg: "cannot combine hours_back with start/end"}
		}
		if q.Start == 0 || q.End == 0 {
			return &ValidationError{Path: "start", Msg: "start and end must be set together"}
		}
		if q.Start >= q.End {
			return &ValidationError{Path: "start", Msg: "start must be before end"}
		}
	} else if q.HoursBack == 0 {
		q.HoursBack = constants.DefaultHoursBack
	}

	return nil
}
