package tvc

import (
	"bytes"
	"testing"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

func mustCell(t *testing.T, v uint64) *cell.Cell {
	t.Helper()
	b := cell.BeginCell()
	if err := b.StoreUInt(v, 32); err != nil {
		t.Fatalf("StoreUInt: %v", err)
	}
	return b.EndCell()
}

func TestSerializeLoadRoundTrip(t *testing.T) {
	code := mustCell(t, 0xC0DE)
	data := mustCell(t, 0xDA7A)

	depth := uint8(5)
	si := &StateInit{
		SplitDepth: &depth,
		TickTock:   &TickTock{Tick: true},
		Code:       code,
		Data:       data,
	}

	boc, err := si.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back, err := Load(boc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if back.SplitDepth == nil || *back.SplitDepth != depth {
		t.Fatalf("split depth = %v, want %d", back.SplitDepth, depth)
	}
	if back.TickTock == nil || !back.TickTock.Tick || back.TickTock.Tock {
		t.Fatalf("tick/tock = %+v", back.TickTock)
	}
	if back.Code == nil || !bytes.Equal(back.Code.Hash(), code.Hash()) {
		t.Fatal("code cell did not survive the round trip")
	}
	if back.Data == nil || !bytes.Equal(back.Data.Hash(), data.Hash()) {
		t.Fatal("data cell did not survive the round trip")
	}
	if back.Lib != nil {
		t.Fatal("library appeared out of nowhere")
	}
}

func TestReplaceDataKeepsCode(t *testing.T) {
	code := mustCell(t, 1)
	si := &StateInit{Code: code, Data: mustCell(t, 2)}

	replacement := mustCell(t, 3)
	if err := si.ReplaceData(replacement.ToBOC()); err != nil {
		t.Fatalf("ReplaceData: %v", err)
	}

	boc, err := si.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back, err := Load(boc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(back.Data.Hash(), replacement.Hash()) {
		t.Fatal("data cell was not replaced")
	}
	if !bytes.Equal(back.Code.Hash(), code.Hash()) {
		t.Fatal("code cell changed during a data replacement")
	}
}

func TestDataBOCDefaultsToEmptyCell(t *testing.T) {
	si := &StateInit{}

	data, err := cell.FromBOC(si.DataBOC())
	if err != nil {
		t.Fatalf("DataBOC produced an unparsable bag: %v", err)
	}
	empty := cell.BeginCell().EndCell()
	if !bytes.Equal(data.Hash(), empty.Hash()) {
		t.Fatal("missing data cell should encode as the empty cell")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load([]byte("definitely not a bag of cells")); err == nil {
		t.Fatal("Load accepted garbage")
	}
}
