package toml

import "fmt"

type options struct {
	maxDepth int
	format   Format
	indent   int
}

// Option configures encoding or decoding.
type Option func(*options) error

// MaxDepth returns an Option that sets the maximum recursion depth
// for the decoder. This helps prevent stack overflows when
// unmarshaling highly nested documents.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("toml: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// WithFormat returns an Option that selects the Encoder's output
// format: TOML (the default), JSON, or YAML.
func WithFormat(f Format) Option {
	return func(o *options) error {
		switch f {
		case TOML, JSON, YAML:
			o.format = f
			return nil
		}
		return fmt.Errorf("toml: unknown output format %d", int(f))
	}
}

// Indent returns an Option that sets the number of spaces per nesting
// level for JSON and YAML output. Zero produces minified JSON.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("toml: indent spaces cannot be negative")
		}
		o.indent = n
		return nil
	}
}
