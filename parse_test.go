package toml_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"

	toml "github.com/tomlpit/go-toml"
)

// decodeTree parses the input and lowers it into plain Go values so
// the tests can compare whole trees.
func decodeTree(t *testing.T, input string) any {
	t.Helper()
	var v any
	err := toml.Unmarshal([]byte(input), &v)
	require.NoError(t, err)
	return v
}

func mustDateTime(t *testing.T, s string) toml.DateTime {
	t.Helper()
	d, err := toml.ParseDateTime(s)
	require.NoError(t, err)
	return d
}

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "simple key/values",
			input: "name = \"Tom\"\nage = 42\n",
			want:  map[string]any{"name": "Tom", "age": int64(42)},
		},
		{
			name:  "deeper header before parent header",
			input: "[a.b]\nx = 1\n[a]\ny = 2\n",
			want: map[string]any{
				"a": map[string]any{
					"b": map[string]any{"x": int64(1)},
					"y": int64(2),
				},
			},
		},
		{
			name:  "array of tables",
			input: "[[products]]\nname = \"A\"\n[[products]]\nname = \"B\"\n",
			want: map[string]any{
				"products": []any{
					map[string]any{"name": "A"},
					map[string]any{"name": "B"},
				},
			},
		},
		{
			name:  "underscored float with underscored exponent",
			input: "f = 1_0_0.0e+0_1\n",
			want:  map[string]any{"f": float64(1000)},
		},
		{
			name:  "multiline basic trims leading newline",
			input: "s = \"\"\"\nline1\nline2\"\"\"\n",
			want:  map[string]any{"s": "line1\nline2"},
		},
		{
			name:  "line-ending backslash",
			input: "s = \"\"\"a\\\n   b\"\"\"\n",
			want:  map[string]any{"s": "ab"},
		},
		{
			name:  "dotted keys inside inline table",
			input: "a = { b.c = 1, b.d = 2 }\n",
			want: map[string]any{
				"a": map[string]any{
					"b": map[string]any{"c": int64(1), "d": int64(2)},
				},
			},
		},
		{
			name:  "dotted key extends implicit table",
			input: "a.b = 1\n[a.c]\nx = 2\n",
			want: map[string]any{
				"a": map[string]any{
					"b": int64(1),
					"c": map[string]any{"x": int64(2)},
				},
			},
		},
		{
			name:  "integer bases",
			input: "hex = 0xDEADBEEF\noct = 0o755\nbin = 0b1101\ndec = -17\nplus = +99\n",
			want: map[string]any{
				"hex":  int64(0xDEADBEEF),
				"oct":  int64(0o755),
				"bin":  int64(13),
				"dec":  int64(-17),
				"plus": int64(99),
			},
		},
		{
			name:  "floats",
			input: "a = 3.14\nb = 5e+22\nc = -2E-2\nd = 0.0\n",
			want: map[string]any{
				"a": 3.14,
				"b": 5e22,
				"c": -2e-2,
				"d": 0.0,
			},
		},
		{
			name:  "mixed-type array",
			input: "a = [1, \"two\", 3.0, true]\n",
			want:  map[string]any{"a": []any{int64(1), "two", 3.0, true}},
		},
		{
			name:  "nested arrays with newlines and trailing comma",
			input: "a = [\n  [1, 2],\n  # comment\n  [3],\n]\n",
			want:  map[string]any{"a": []any{[]any{int64(1), int64(2)}, []any{int64(3)}}},
		},
		{
			name:  "empty array and empty inline table",
			input: "a = []\nb = {}\n",
			want:  map[string]any{"a": []any{}, "b": map[string]any{}},
		},
		{
			name:  "quoted keys",
			input: "\"a b\" = 1\n'c.d' = 2\n\"\" = 3\n",
			want:  map[string]any{"a b": int64(1), "c.d": int64(2), "": int64(3)},
		},
		{
			name:  "bare key with leading digit",
			input: "3 = \"three\"\n1key = 1\n",
			want:  map[string]any{"3": "three", "1key": int64(1)},
		},
		{
			name:  "crlf line endings",
			input: "a = 1\r\nb = 2\r\n",
			want:  map[string]any{"a": int64(1), "b": int64(2)},
		},
		{
			name:  "comments and blank lines",
			input: "# head\n\na = 1 # trailing\n\t# indented comment\nb = 2\n",
			want:  map[string]any{"a": int64(1), "b": int64(2)},
		},
		{
			name:  "literal strings keep backslashes",
			input: "winpath = 'C:\\Users\\nodejs'\n",
			want:  map[string]any{"winpath": "C:\\Users\\nodejs"},
		},
		{
			name:  "multiline basic with quotes before terminator",
			input: "a = \"\"\"x\"\"\"\"\nb = \"\"\"he said \"\"quote\"\" here\"\"\"\n",
			want:  map[string]any{"a": "x\"", "b": "he said \"\"quote\"\" here"},
		},
		{
			name:  "unicode escapes",
			input: "s = \"Jos\\u00E9 \\U0001F600\"\n",
			want:  map[string]any{"s": "Jos\u00e9 \U0001f600"},
		},
		{
			name:  "header paths through arrays of tables",
			input: "[[fruit]]\nname = \"apple\"\n[fruit.physical]\ncolor = \"red\"\n[[fruit]]\nname = \"banana\"\n",
			want: map[string]any{
				"fruit": []any{
					map[string]any{
						"name":     "apple",
						"physical": map[string]any{"color": "red"},
					},
					map[string]any{"name": "banana"},
				},
			},
		},
		{
			name:  "nested arrays of tables",
			input: "[[a]]\n[[a.b]]\nx = 1\n[[a]]\n[[a.b]]\nx = 2\n",
			want: map[string]any{
				"a": []any{
					map[string]any{"b": []any{map[string]any{"x": int64(1)}}},
					map[string]any{"b": []any{map[string]any{"x": int64(2)}}},
				},
			},
		},
		{
			name:  "empty document",
			input: "# only a comment, no values\n",
			want:  map[string]any{},
		},
		{
			name:  "datetimes",
			input: "odt = 1979-05-27T07:32:00Z\nldt = 1979-05-27T00:32:00.999999\nld = 1979-05-27\nlt = 07:32:00\n",
			want: map[string]any{
				"odt": mustDateTime(t, "1979-05-27T07:32:00Z"),
				"ldt": mustDateTime(t, "1979-05-27T00:32:00.999999"),
				"ld":  mustDateTime(t, "1979-05-27"),
				"lt":  mustDateTime(t, "07:32:00"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeTree(t, tt.input)
			if !reflect.DeepEqual(got, any(tt.want)) {
				t.Errorf("tree mismatch:\n%s", pretty.Compare(got, tt.want))
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duplicate key", "a = 1\na = 2\n"},
		{"duplicate key across dotted path", "a.b = 1\na.b = 2\n"},
		{"redefined table", "[a]\nx = 1\n[a]\ny = 2\n"},
		{"table redefines dotted-key parent", "a.b = 1\n[a]\n"},
		{"table redefines array of tables", "[[a]]\n[a]\n"},
		{"array of tables over plain table", "[a]\n[[a]]\n"},
		{"array of tables over value", "a = [1, 2]\n[[a]]\n"},
		{"inline table is closed to dotted key", "a = { x = 1 }\na.y = 2\n"},
		{"inline table is closed to header", "a = { x = 1 }\n[a.y]\n"},
		{"inline table conflict", "a = { b = { c = 1 }, b.d = 2 }\n"},
		{"leap year", "t = 2001-02-29T00:00:00Z\n"},
		{"consecutive underscores", "f = 1__0\n"},
		{"trailing underscore", "f = 1_\n"},
		{"leading zero", "n = 01\n"},
		{"sign on hex", "n = -0x1\n"},
		{"float missing fraction digits", "f = 1.e5\n"},
		{"float missing exponent digits", "f = 10e\n"},
		{"integer overflow", "n = 9223372036854775808\n"},
		{"missing line break", "a = 1 b = 2\n"},
		{"bare carriage return", "a = 1\rb = 2\n"},
		{"unterminated string", "s = \"abc\n"},
		{"newline in basic string", "s = \"a\nb\"\n"},
		{"bad escape", "s = \"\\x41\"\n"},
		{"surrogate escape", "s = \"\\uD800\"\n"},
		{"codepoint out of range", "s = \"\\U00110000\"\n"},
		{"control char in comment", "# bad \x01 comment\n"},
		{"control char in string", "s = \"a\x01b\"\n"},
		{"six closing quotes", "s = \"\"\"x\"\"\"\"\"\"\n"},
		{"array missing separator", "a = [1 2]\n"},
		{"unclosed array", "a = [1, 2\n"},
		{"trailing comma in inline table", "a = { x = 1, }\n"},
		{"newline in inline table", "a = { x = 1,\ny = 2 }\n"},
		{"unclosed inline table", "a = { x = 1\n"},
		{"missing value", "a =\n"},
		{"missing equals", "a 1\n"},
		{"empty bare key", "= 1\n"},
		{"header without line break", "[a] x = 1\n"},
		{"unclosed header", "[a\nx = 1\n"},
		{"seconds out of range", "t = 10:00:60\n"},
		{"hour out of range", "t = 24:00:00\n"},
		{"bad offset", "t = 2000-01-01T00:00:00+24:00\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toml.Parse([]byte(tt.input))
			require.Error(t, err)
			var perr *toml.ParseError
			require.ErrorAs(t, err, &perr)
			require.GreaterOrEqual(t, perr.Offset, 0)
		})
	}
}

func TestParse_NaN(t *testing.T) {
	doc, err := toml.Parse([]byte("a = nan\nb = inf\nc = -inf\nd = +inf\n"))
	require.NoError(t, err)

	f, err := doc.Get("a").Float64()
	require.NoError(t, err)
	require.True(t, math.IsNaN(f))

	f, err = doc.Get("b").Float64()
	require.NoError(t, err)
	require.True(t, math.IsInf(f, 1))

	f, err = doc.Get("c").Float64()
	require.NoError(t, err)
	require.True(t, math.IsInf(f, -1))

	f, err = doc.Get("d").Float64()
	require.NoError(t, err)
	require.True(t, math.IsInf(f, 1))
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := toml.Parse([]byte("a = 1\na = 2\n"))
	require.Error(t, err)
	var perr *toml.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 6, perr.Offset)
	require.Contains(t, perr.Error(), `"a"`)
	require.Contains(t, perr.Error(), "position: 6")
}

func TestParse_NumberDateDiscrimination(t *testing.T) {
	// Four digits and a dash look like a date but must fall back to a
	// number when the full shape does not match.
	doc, err := toml.Parse([]byte("n = 2024\n"))
	require.NoError(t, err)
	n, err := doc.Get("n").Int()
	require.NoError(t, err)
	require.Equal(t, int64(2024), n)

	_, err = toml.Parse([]byte("n = 1234-5\n"))
	require.Error(t, err)
}
