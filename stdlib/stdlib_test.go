package stdlib

import (
	"bytes"
	"testing"
)

func TestLibrary(t *testing.T) {
	lib := Library()
	if len(lib) == 0 {
		t.Fatal("embedded runtime is empty")
	}
	if !bytes.Contains(lib, []byte(".fragment")) {
		t.Fatal("embedded runtime holds no fragments")
	}
}

func TestLibraryReturnsCopy(t *testing.T) {
	a := Library()
	a[0] = '#'
	if b := Library(); b[0] == '#' {
		t.Fatal("callers can mutate the embedded runtime")
	}
}
