package format

import (
	"bytes"
	"fmt"
	"strings"
)

type QuoteStyle string

const (
	QuoteDouble   QuoteStyle = "double"
	QuoteSingle   QuoteStyle = "single"
	QuotePreserve QuoteStyle = "preserve"
)

type LineEnding string

const (
	LineEndingAuto LineEnding = "auto"
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
)

// Options control the layout of formatted output.
type Options struct {
	Width       int        `json:"width" toml:"width" yaml:"width" msgpack:"width"`
	IndentCount int        `json:"indentCount" toml:"indent-count" yaml:"indent-count" msgpack:"indent_count"`
	UseTabs     bool       `json:"useTabs" toml:"use-tabs" yaml:"use-tabs" msgpack:"use_tabs"`
	QuoteStyle  QuoteStyle `json:"quoteStyle" toml:"quote-style" yaml:"quote-style" msgpack:"quote_style"`
	LineEnding  LineEnding `json:"lineEnding" toml:"line-ending" yaml:"line-ending" msgpack:"line_ending"`
}

func DefaultOptions() Options {
	return Options{
		Width:       120,
		IndentCount: 4,
		UseTabs:     false,
		QuoteStyle:  QuoteDouble,
		LineEnding:  LineEndingAuto,
	}
}

// OptionError reports an invalid option value.
type OptionError struct {
	Field  string
	Value  any
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (o Options) Validate() error {
	if o.Width < 1 {
		return &OptionError{Field: "width", Value: o.Width, Reason: "must be at least 1"}
	}
	if o.IndentCount < 0 {
		return &OptionError{Field: "indent-count", Value: o.IndentCount, Reason: "must not be negative"}
	}
	if o.IndentCount == 0 && !o.UseTabs {
		return &OptionError{Field: "indent-count", Value: o.IndentCount, Reason: "must be positive when indenting with spaces"}
	}
	switch o.QuoteStyle {
	case QuoteDouble, QuoteSingle, QuotePreserve:
	default:
		return &OptionError{Field: "quote-style", Value: o.QuoteStyle, Reason: "must be double, single or preserve"}
	}
	switch o.LineEnding {
	case LineEndingAuto, LineEndingLF, LineEndingCRLF:
	default:
		return &OptionError{Field: "line-ending", Value: o.LineEnding, Reason: "must be auto, lf or crlf"}
	}
	return nil
}

// ParseQuoteStyle accepts the names used on the command line and in
// configuration files.
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	switch q := QuoteStyle(strings.ToLower(s)); q {
	case QuoteDouble, QuoteSingle, QuotePreserve:
		return q, nil
	}
	return "", &OptionError{Field: "quote-style", Value: s, Reason: "must be double, single or preserve"}
}

func ParseLineEnding(s string) (LineEnding, error) {
	switch e := LineEnding(strings.ToLower(s)); e {
	case LineEndingAuto, LineEndingLF, LineEndingCRLF:
		return e, nil
	}
	return "", &OptionError{Field: "line-ending", Value: s, Reason: "must be auto, lf or crlf"}
}

// newline resolves the line ending for source. Auto picks whichever of
// "\r\n" and "\n" ends the first line.
func (o Options) newline(source []byte) string {
	switch o.LineEnding {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingLF:
		return "\n"
	}
	if i := bytes.IndexByte(source, '\n'); i > 0 && source[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func (o Options) indentWidth() int {
	if o.IndentCount <= 0 {
		return 4
	}
	return o.IndentCount
}
