package sample

// Sample describes the timing we capture for each execution, in seconds.
type Sample struct {
	Real float64 `json:"real"`
	User float64 `json:"user"`
	Sys  float64 `json:"sys"`
}

// Dimension selects one of the timing fields of a Sample.
type Dimension int

const (
	Real Dimension = iota
	User
	Sys
)

// Dimensions lists every timing field in display order.
var Dimensions = []Dimension{Real, User, Sys}

func (d Dimension) String() string {
	switch d {
	case Real:
		return "real"
	case User:
		return "user"
	case Sys:
		return "sys"
	}
	return "unknown"
}

// Value returns the field selected by d.
func (s Sample) Value(d Dimension) float64 {
	switch d {
	case User:
		return s.User
	case Sys:
		return s.Sys
	}
	return s.Real
}

// With returns a copy of s with the field selected by d set to v.
func (s Sample) With(d Dimension, v float64) Sample {
	switch d {
	case Real:
		s.Real = v
	case User:
		s.User = v
	case Sys:
		s.Sys = v
	}
	return s
}

// Outcome is how a child terminated. Signal is only set when Signaled is true.
type Outcome struct {
	ExitCode int    `json:"exitCode"`
	Signaled bool   `json:"signaled"`
	Signal   string `json:"signal,omitempty"`
}

// Abnormal reports whether the child ended without calling exit.
func (o Outcome) Abnormal() bool {
	return o.Signaled
}

// Code is the exit code the tool reports for this outcome: the child's own
// code after a normal exit, 1 otherwise.
func (o Outcome) Code() int {
	if o.Signaled {
		return 1
	}
	return o.ExitCode
}
