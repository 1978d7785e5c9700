package toml_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	toml "github.com/tomlpit/go-toml"
)

func TestMarshal_Struct(t *testing.T) {
	type server struct {
		Name    string   `toml:"name"`
		Port    int      `toml:"port"`
		Debug   bool
		Ratio   float64  `toml:"ratio,omitempty"`
		Tags    []string `toml:"tags"`
		Skip    string   `toml:"-"`
		private string
	}
	_ = server{private: "x"}

	b, err := toml.Marshal(server{
		Name:  "srv",
		Port:  8080,
		Debug: true,
		Tags:  []string{"a", "b"},
		Skip:  "never",
	})
	require.NoError(t, err)
	require.Equal(t,
		"Debug = true\nname = \"srv\"\nport = 8080\ntags = [\"a\", \"b\"]\n",
		string(b))
}

func TestMarshal_NestedTables(t *testing.T) {
	v := map[string]any{
		"title": "demo",
		"owner": map[string]any{"name": "Tom"},
		"hosts": []any{
			map[string]any{"addr": "h1"},
			map[string]any{"addr": "h2"},
		},
	}
	b, err := toml.Marshal(v)
	require.NoError(t, err)
	require.Equal(t,
		"title = \"demo\"\n"+
			"\n[[hosts]]\naddr = \"h1\"\n"+
			"\n[[hosts]]\naddr = \"h2\"\n"+
			"\n[owner]\nname = \"Tom\"\n",
		string(b))
}

func TestMarshal_TimeAndDateTime(t *testing.T) {
	tm := time.Date(1979, 5, 27, 7, 32, 0, 0, time.UTC)
	b, err := toml.Marshal(map[string]any{"created": tm})
	require.NoError(t, err)
	require.Equal(t, "created = 1979-05-27T07:32:00Z\n", string(b))

	d, err := toml.ParseDateTime("07:32:00")
	require.NoError(t, err)
	b, err = toml.Marshal(map[string]toml.DateTime{"at": d})
	require.NoError(t, err)
	require.Equal(t, "at = 07:32:00\n", string(b))
}

func TestMarshal_Formats(t *testing.T) {
	v := map[string]any{"a": map[string]any{"b": int64(1)}}

	b, err := toml.Marshal(v, toml.WithFormat(toml.JSON))
	require.NoError(t, err)
	require.Equal(t, `{"a": {"b": 1}}`, string(b))

	b, err = toml.Marshal(v, toml.WithFormat(toml.YAML), toml.Indent(2))
	require.NoError(t, err)
	require.Equal(t, "a:\n  b: 1", string(b))
}

func TestMarshal_InvalidIndent(t *testing.T) {
	_, err := toml.Marshal(map[string]any{}, toml.Indent(-1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "indent spaces cannot be negative")
}

// Helper types for custom marshaler tests.
type point struct {
	X, Y int
}

func (p point) MarshalTOML() ([]byte, error) {
	return []byte("{ x = 1, y = 2 }"), nil
}

type badMarshaler struct{}

func (badMarshaler) MarshalTOML() ([]byte, error) {
	return nil, errors.New("boom")
}

type invalidOutput struct{}

func (invalidOutput) MarshalTOML() ([]byte, error) {
	return []byte("{ unterminated"), nil
}

func TestMarshal_CustomMarshaler(t *testing.T) {
	t.Run("value receiver", func(t *testing.T) {
		b, err := toml.Marshal(map[string]point{"p": {}})
		require.NoError(t, err)
		require.Equal(t, "\n[p]\nx = 1\ny = 2\n", string(b))
	})

	t.Run("marshaler that fails", func(t *testing.T) {
		_, err := toml.Marshal(map[string]badMarshaler{"b": {}})
		require.Error(t, err)
		var merr *toml.MarshalerError
		require.ErrorAs(t, err, &merr)
		require.Contains(t, err.Error(), "boom")
	})

	t.Run("marshaler with invalid output", func(t *testing.T) {
		_, err := toml.Marshal(map[string]invalidOutput{"b": {}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid TOML output")
	})
}

func TestValueOf(t *testing.T) {
	v, err := toml.ValueOf(map[string]any{"n": 1, "s": "x", "f": 1.5, "b": true,
		"list": []int{1, 2}})
	require.NoError(t, err)
	require.Equal(t, "b = true\nf = 1.5\nlist = [1, 2]\nn = 1\ns = \"x\"\n",
		toml.Stringify(v, toml.TOML, 0))

	_, err = toml.ValueOf(nil)
	require.Error(t, err)

	_, err = toml.ValueOf(map[int]string{1: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "map key type must be a string")

	_, err = toml.ValueOf(make(chan int))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported type")
}
