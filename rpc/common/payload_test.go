package common

import (
	"reflect"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	b := &PayloadBuilder{}
	b.Console("The collection is empty.").
		File("1,Group A,10,3.5").
		Console("done").
		File("2,Group B,0,1")

	console, file := DemuxPayload(b.String())

	wantConsole := []string{"The collection is empty.", "done"}
	wantFile := []string{"1,Group A,10,3.5", "2,Group B,0,1"}
	if !reflect.DeepEqual(console, wantConsole) {
		t.Fatalf("console lines mismatch: %v != %v", console, wantConsole)
	}
	if !reflect.DeepEqual(file, wantFile) {
		t.Fatalf("file lines mismatch: %v != %v", file, wantFile)
	}
}

func TestDemuxIgnoresUnknownPrefix(t *testing.T) {
	console, file := DemuxPayload("C#hello##garbage##F#row")
	if len(console) != 1 || console[0] != "hello" {
		t.Fatalf("unexpected console lines: %v", console)
	}
	if len(file) != 1 || file[0] != "row" {
		t.Fatalf("unexpected file lines: %v", file)
	}
}

func TestDemuxEmptyPayload(t *testing.T) {
	console, file := DemuxPayload("")
	if console != nil || file != nil {
		t.Fatalf("empty payload must demux to nothing, got %v / %v", console, file)
	}
}
