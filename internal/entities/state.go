package entities

// StateKind discriminates RenderState
type StateKind int

const (
	// StateEmpty shows the "no results" panel without any detail
	StateEmpty StateKind = iota
	// StateResults shows the results table
	StateResults
	// StateError shows the "no results" panel with an error message
	StateError
)

func (k StateKind) String() string {
	switch k {
	case StateResults:
		return "results"
	case StateError:
		return "error"
	default:
		return "empty"
	}
}

// MarshalText encodes the kind by name
func (k StateKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RenderState is what a view displays after the most recent query resolved.
// No history is kept, a new state always replaces the old one.
type RenderState struct {
	Kind      StateKind  `json:"state"`
	QueryKind QueryKind  `json:"query_type,omitempty"`
	Columns   []string   `json:"columns,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// EmptyState returns the state shown for an empty or unsuccessful result
func EmptyState(kind QueryKind) RenderState {
	return RenderState{Kind: StateEmpty, QueryKind: kind}
}

// ErrorState returns the state shown when the request itself failed
func ErrorState(kind QueryKind, message string) RenderState {
	return RenderState{Kind: StateError, QueryKind: kind, Message: message}
}
