package pyrepr

import "testing"

func TestOptionalPath(t *testing.T) {
	if got := OptionalPath("", false); got != "None" {
		t.Fatalf("OptionalPath unset = %q", got)
	}
	if got := OptionalPath("/tmp/foo", true); got != "'/tmp/foo'" {
		t.Fatalf("OptionalPath set = %q", got)
	}
}

func TestJSONObjectNilIsNone(t *testing.T) {
	if got := JSONObject(nil); got != "None" {
		t.Fatalf("JSONObject(nil) = %q", got)
	}
}

func TestJSONObjectSortsKeys(t *testing.T) {
	obj := map[string]any{"b": "2", "a": float64(1)}
	if got, want := JSONObject(obj), "{'a': 1, 'b': '2'}"; got != want {
		t.Fatalf("JSONObject = %q, want %q", got, want)
	}
}

func TestValueTypes(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{false, "False"},
		{"hi", "'hi'"},
		{float64(3), "3"},
		{float64(3.5), "3.5"},
		{[]any{"a", float64(1)}, "['a', 1]"},
	}
	for _, c := range cases {
		if got := Value(c.in); got != c.want {
			t.Fatalf("Value(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStringListMatchesBuildBackendConvention(t *testing.T) {
	got := StringList([]string{"fake", "build", "wheel", "requires"})
	want := "['fake', 'build', 'wheel', 'requires']"
	if got != want {
		t.Fatalf("StringList = %q, want %q", got, want)
	}
}

func TestKeywordArgs(t *testing.T) {
	got := KeywordArgs([]string{"a", "b"}, []string{"1", "None"})
	if got != "a=1, b=None" {
		t.Fatalf("KeywordArgs = %q", got)
	}
}

func TestStrEscapesQuotesAndBackslashes(t *testing.T) {
	if got, want := Str(`it's\here`), `'it\'s\\here'`; got != want {
		t.Fatalf("Str = %q, want %q", got, want)
	}
}
