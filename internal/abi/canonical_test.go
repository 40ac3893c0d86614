package abi

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteCanonicalSortsKeys(t *testing.T) {
	// The same interface with two different wire orders.
	a := json.RawMessage(`{"version":"2.4","functions":[{"name":"get","id":"0x162c14a5"}],"events":[]}`)
	b := json.RawMessage(`{"events":[],"functions":[{"id":"0x162c14a5","name":"get"}],"version":"2.4"}`)

	var outA, outB strings.Builder
	if err := WriteCanonical(&outA, a); err != nil {
		t.Fatalf("WriteCanonical(a): %v", err)
	}
	if err := WriteCanonical(&outB, b); err != nil {
		t.Fatalf("WriteCanonical(b): %v", err)
	}
	if outA.String() != outB.String() {
		t.Fatalf("canonical outputs differ:\n%s\nvs\n%s", outA.String(), outB.String())
	}
}

func TestWriteCanonicalShape(t *testing.T) {
	var out strings.Builder
	err := WriteCanonical(&out, json.RawMessage(`{"b":1,"a":[{"y":2,"x":9007199254740993}]}`))
	if err != nil {
		t.Fatalf("WriteCanonical: %v", err)
	}

	want := "{\n  \"a\": [\n    {\n      \"x\": 9007199254740993,\n      \"y\": 2\n    }\n  ],\n  \"b\": 1\n}\n"
	if got := out.String(); got != want {
		t.Fatalf("canonical shape mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteCanonicalRejectsGarbage(t *testing.T) {
	var out strings.Builder
	if err := WriteCanonical(&out, json.RawMessage(`{"unterminated":`)); err == nil {
		t.Fatal("WriteCanonical accepted a broken document")
	}
}
