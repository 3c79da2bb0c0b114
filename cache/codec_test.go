package cache

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type report struct {
	Title  string
	Scores []float64
	Labels map[string]int
}

func TestGobCodec_RoundTrip(t *testing.T) {
	codec := NewGobCodec()
	in := report{Title: "r", Scores: []float64{0.5, 1.5}, Labels: map[string]int{"a": 1}}

	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out report
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGobCodec_CorruptData(t *testing.T) {
	codec := NewGobCodec()

	for _, data := range [][]byte{nil, []byte("not gob at all"), {0xff, 0xff, 0xff, 0x00, 0x01}} {
		var out report
		err := codec.Unmarshal(data, &out)
		if !errors.Is(err, ErrCorrupt) {
			t.Errorf("Unmarshal(%q) = %v, want ErrCorrupt", data, err)
		}
	}
}

func TestGobCodec_TypeMismatch(t *testing.T) {
	codec := NewGobCodec()
	data, err := codec.Marshal("a string")
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out report
	if err := codec.Unmarshal(data, &out); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Unmarshal(mismatched type) = %v, want ErrCorrupt", err)
	}
}

func TestGobCodec_UnsupportedValue(t *testing.T) {
	if _, err := NewGobCodec().Marshal(func() {}); err == nil {
		t.Error("Marshal(func) should fail")
	}
}

func TestGobCodec_Ext(t *testing.T) {
	if got := NewGobCodec().Ext(); got != ".gob" {
		t.Errorf("Ext() = %q, want .gob", got)
	}
}
