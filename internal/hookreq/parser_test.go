package hookreq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danshapiro/hookd/internal/classify"
	"github.com/danshapiro/hookd/internal/hookkind"
	"github.com/danshapiro/hookd/internal/protocol"
)

func newIO(input string) (*protocol.IO, *bytes.Buffer) {
	var out bytes.Buffer
	return protocol.New(strings.NewReader(input), &out), &out
}

func TestParseHappyPath(t *testing.T) {
	// build-backend, backend-path, hook-name, then build_wheel's three args.
	c, _ := newIO("ok_backend\n\nbuild_wheel\nfoo\n\n\n")
	req, cerr, err := Parse(c, "/tree")
	if err != nil {
		t.Fatalf("transport error: %v", err)
	}
	if cerr != nil {
		t.Fatalf("classified error: %v", cerr)
	}
	if req.Spec.Module != "ok_backend" || req.Hook != hookkind.BuildWheel {
		t.Fatalf("req = %+v", req)
	}
	if len(req.Args) != 3 || !req.Args[0].PathSet || req.Args[0].PathValue != "/tree/foo" {
		t.Fatalf("args = %+v", req.Args)
	}
	if req.Args[1].SettingsSet || req.Args[2].PathSet {
		t.Fatalf("expected unset config_settings and metadata_directory, got %+v", req.Args)
	}
}

func TestParseInvalidHookName(t *testing.T) {
	c, _ := newIO("ok_backend\n\nhook_does_not_exist\n")
	req, cerr, err := Parse(c, "/tree")
	if err != nil {
		t.Fatalf("transport error: %v", err)
	}
	if req != nil {
		t.Fatalf("expected nil request")
	}
	if cerr == nil || cerr.Kind != classify.InvalidHookName {
		t.Fatalf("cerr = %+v", cerr)
	}
	want := "The name 'hook_does_not_exist' is not valid hook. Expected one of: " + hookkind.QuotedList()
	if cerr.Message != want {
		t.Fatalf("message = %q, want %q", cerr.Message, want)
	}
}

func TestParseMalformedConfigSettings(t *testing.T) {
	c, _ := newIO("ok_backend\n\nget_requires_for_build_wheel\nnot_valid_json\n")
	_, cerr, err := Parse(c, "/tree")
	if err != nil {
		t.Fatalf("transport error: %v", err)
	}
	if cerr == nil || cerr.Kind != classify.MalformedHookArgument {
		t.Fatalf("cerr = %+v", cerr)
	}
	want := "Malformed content for argument 'config_settings': 'not_valid_json'"
	if cerr.Message != want {
		t.Fatalf("message = %q, want %q", cerr.Message, want)
	}
}

func TestParseConfigSettingsMustBeObject(t *testing.T) {
	c, _ := newIO("ok_backend\n\nget_requires_for_build_wheel\n[1,2,3]\n")
	_, cerr, err := Parse(c, "/tree")
	if err != nil {
		t.Fatalf("transport error: %v", err)
	}
	if cerr == nil || cerr.Kind != classify.MalformedHookArgument {
		t.Fatalf("expected MalformedHookArgument for a JSON array, got %+v", cerr)
	}
}

func TestParseAbsolutePathArgumentIsNotRejoined(t *testing.T) {
	c, _ := newIO("ok_backend\n\nbuild_sdist\n/abs/out\n\n")
	req, cerr, err := Parse(c, "/tree")
	if err != nil || cerr != nil {
		t.Fatalf("unexpected error: %v %v", cerr, err)
	}
	if req.Args[0].PathValue != "/abs/out" {
		t.Fatalf("PathValue = %q", req.Args[0].PathValue)
	}
}

func TestParseTransportErrorOnEOF(t *testing.T) {
	c, _ := newIO("")
	req, cerr, err := Parse(c, "/tree")
	if req != nil || cerr != nil {
		t.Fatalf("expected nil request and classified error on EOF")
	}
	if err == nil {
		t.Fatalf("expected a transport error")
	}
}

func TestRequestFormatted(t *testing.T) {
	c, _ := newIO("ok_backend\n\nbuild_wheel\nfoo\n\n\n")
	req, _, err := Parse(c, "/tree")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "wheel_directory='/tree/foo', config_settings=None, metadata_directory=None"
	if got := req.Formatted(); got != want {
		t.Fatalf("Formatted() = %q, want %q", got, want)
	}
}
