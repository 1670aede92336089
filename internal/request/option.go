package request

import "strings"

type quoteStyle int

const (
	quoteNone quoteStyle = iota
	// quoteValue renders -flag "value".
	quoteValue
	// quoteAssignment renders -flag key="value".
	quoteAssignment
)

// Option is one transcoder flag and its optional value.
type Option struct {
	Flag  string
	Value string
	quote quoteStyle
}

// Flag builds an option whose value needs no quoting.
func Flag(flag, value string) Option {
	return Option{Flag: flag, Value: value}
}

// QuotedFlag builds an option whose value is quoted in the command string.
func QuotedFlag(flag, value string) Option {
	return Option{Flag: flag, Value: value, quote: quoteValue}
}

// Metadata builds a -metadata key="value" option.
func Metadata(key, value string) Option {
	return Option{Flag: "-metadata", Value: key + "=" + value, quote: quoteAssignment}
}

func (o Option) IsZero() bool {
	return o.Flag == ""
}

// String renders the option the way it appears in the command string.
func (o Option) String() string {
	if o.IsZero() {
		return ""
	}
	if o.Value == "" {
		return o.Flag
	}
	switch o.quote {
	case quoteValue:
		return o.Flag + ` "` + o.Value + `"`
	case quoteAssignment:
		key, value, ok := strings.Cut(o.Value, "=")
		if ok {
			return o.Flag + " " + key + `="` + value + `"`
		}
	}
	return o.Flag + " " + o.Value
}

// Args returns the option as argv entries without shell quoting.
func (o Option) Args() []string {
	switch {
	case o.IsZero():
		return nil
	case o.Value == "":
		return []string{o.Flag}
	default:
		return []string{o.Flag, o.Value}
	}
}
