package solc

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func decodeRequest(t *testing.T, r Request) map[string]any {
	t.Helper()
	raw, err := r.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("request is not valid JSON: %v", err)
	}
	return doc
}

func selectionFor(t *testing.T, doc map[string]any, input string) map[string]any {
	t.Helper()
	settings, ok := doc["settings"].(map[string]any)
	if !ok {
		t.Fatal("request has no settings object")
	}
	sel, ok := settings["outputSelection"].(map[string]any)
	if !ok {
		t.Fatal("request has no outputSelection")
	}
	perInput, ok := sel[input].(map[string]any)
	if !ok {
		t.Fatalf("outputSelection is not keyed by the input path %q", input)
	}
	return perInput
}

func TestNewRequestFullBuild(t *testing.T) {
	const input = "/work/Wallet.sol"
	doc := decodeRequest(t, NewRequest(input, RequestOpts{WantAssembly: true}))

	if doc["language"] != "Solidity" {
		t.Fatalf("language = %v, want Solidity", doc["language"])
	}

	perInput := selectionFor(t, doc, input)
	if got, want := perInput["*"], []any{"abi", "assembly"}; !reflect.DeepEqual(got, want) {
		t.Fatalf(`outputSelection["*"] = %v, want %v`, got, want)
	}
	if got, want := perInput[""], []any{"ast"}; !reflect.DeepEqual(got, want) {
		t.Fatalf(`outputSelection[""] = %v, want %v`, got, want)
	}

	sources := doc["sources"].(map[string]any)
	entry, ok := sources[input].(map[string]any)
	if !ok {
		t.Fatalf("sources is not keyed by the input path: %v", sources)
	}
	if got, want := entry["urls"], []any{input}; !reflect.DeepEqual(got, want) {
		t.Fatalf("sources.urls = %v, want %v", got, want)
	}
}

func TestNewRequestWithoutAssembly(t *testing.T) {
	const input = "in.sol"
	for _, opts := range []RequestOpts{
		{WantAssembly: false},                    // --abi-json and the AST modes
		{WantAssembly: false, FunctionIDs: true}, // ids still come without codegen
	} {
		perInput := selectionFor(t, decodeRequest(t, NewRequest(input, opts)), input)
		for _, v := range perInput["*"].([]any) {
			if v == "assembly" {
				t.Fatalf("opts %+v requested assembly", opts)
			}
		}
	}
}

func TestNewRequestFunctionIDs(t *testing.T) {
	const input = "in.sol"
	perInput := selectionFor(t, decodeRequest(t,
		NewRequest(input, RequestOpts{WantAssembly: true, FunctionIDs: true})), input)

	want := []any{"abi", "assembly", "showFunctionIds"}
	if got := perInput["*"]; !reflect.DeepEqual(got, want) {
		t.Fatalf(`outputSelection["*"] = %v, want %v`, got, want)
	}
}

func TestNewRequestSettings(t *testing.T) {
	doc := decodeRequest(t, NewRequest("c.sol", RequestOpts{
		IncludePaths:      []string{"/usr/include/ton", "lib"},
		MainContract:      "Wallet",
		ForceRemoteUpdate: true,
		WantAssembly:      true,
	}))
	settings := doc["settings"].(map[string]any)

	if got, want := settings["includePaths"], []any{"/usr/include/ton", "lib"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("includePaths = %v, want %v", got, want)
	}
	if settings["mainContract"] != "Wallet" {
		t.Fatalf("mainContract = %v, want Wallet", settings["mainContract"])
	}
	if settings["forceRemoteUpdate"] != true {
		t.Fatalf("forceRemoteUpdate = %v, want true", settings["forceRemoteUpdate"])
	}
}

func TestNewRequestEmptySettingsStayPresent(t *testing.T) {
	raw, err := NewRequest("c.sol", RequestOpts{}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// The frontend expects these keys even when they carry nothing.
	for _, fragment := range []string{`"includePaths":[]`, `"mainContract":""`, `"forceRemoteUpdate":false`} {
		if !strings.Contains(raw, fragment) {
			t.Fatalf("encoded request misses %s:\n%s", fragment, raw)
		}
	}
}
