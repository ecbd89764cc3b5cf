package compat

// Status is the verdict of one evaluation.
type Status string

const (
	StatusCompatible          Status = "COMPATIBLE"
	StatusConvertibleLossless Status = "CONVERTIBLE_LOSSLESS"
	StatusConvertibleLossy    Status = "CONVERTIBLE_LOSSY"
	StatusIncompatible        Status = "INCOMPATIBLE"
	StatusError               Status = "ERROR"
)

// Statuses lists every verdict in display order.
var Statuses = []Status{
	StatusCompatible,
	StatusConvertibleLossless,
	StatusConvertibleLossy,
	StatusIncompatible,
	StatusError,
}

func (s Status) String() string { return string(s) }

// Icon returns the single-glyph marker shown next to a result.
func (s Status) Icon() string {
	switch s {
	case StatusCompatible:
		return "✓"
	case StatusConvertibleLossless:
		return "⇄"
	case StatusConvertibleLossy:
		return "⚠"
	case StatusIncompatible:
		return "✕"
	case StatusError:
		return "!"
	default:
		return "?"
	}
}

// Convertible reports whether the status carries a conversion plan.
func (s Status) Convertible() bool {
	return s == StatusConvertibleLossless || s == StatusConvertibleLossy
}
