/*
Package toml parses TOML v1.0.0 documents into an in-memory tree and
serializes such trees back out as TOML, JSON, or YAML. The API is
designed to be familiar to Go developers, closely mirroring the
standard `encoding/json` package.

The package offers two primary workflows depending on the use case:

1. Data-Oriented Decoding and Encoding

For the common task of converting TOML data into Go structs (and vice
versa), the Marshal and Unmarshal functions provide a simple and
direct API:

	var data = []byte("name = \"toml\"\nversion = 1.0\n")

	type Config struct {
		Name    string  `toml:"name"`
		Version float64 `toml:"version"`
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		// handle error
	}
	// cfg is now populated with {Name: "toml", Version: 1.0}

2. Document Manipulation

Parse returns the document as a *Value, a tagged union over the seven
TOML types (boolean, integer, float, string, date/time, array, and
table). Values can be inspected with the typed accessors, modified
with Insert and Append, and rendered in any of the three output
formats with Stringify:

	doc, err := toml.Parse([]byte("[server]\nport = 8080\n"))
	if err != nil {
		// handle error
	}
	port, _ := doc.Get("server").Get("port").Int()

	out := toml.Stringify(doc, toml.JSON, 2)

Tables iterate in ascending key order; source ordering, comments, and
formatting are not preserved.

Customization is available via struct field tags (e.g.
`toml:"key,omitempty"`) and by implementing the toml.Marshaler and
toml.Unmarshaler interfaces.
*/
package toml
