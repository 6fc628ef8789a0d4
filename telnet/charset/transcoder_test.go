package charset

import "testing"

func TestUTF8IsIdentity(t *testing.T) {
	tc, err := New("UTF-8")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	encoded, err := tc.Encode("héllo")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(encoded) != "héllo" {
		t.Errorf("got %q", encoded)
	}
	decoded, err := tc.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != "héllo" {
		t.Errorf("got %q", decoded)
	}
}

func TestISO88591RoundTrip(t *testing.T) {
	tc, err := New("ISO-8859-1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tc.Name() == "" {
		t.Error("expected a resolved IANA name")
	}
	encoded, err := tc.Encode("café")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := tc.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != "café" {
		t.Errorf("got %q", decoded)
	}
}

func TestUnknownCodePageErrors(t *testing.T) {
	if _, err := New("not-a-real-codepage"); err == nil {
		t.Error("expected an error for an unrecognised code page")
	}
}

// TestUSASCIIDecodePassesThroughUTF8 guards against the US-ASCII decoder
// being wired to encoding.Replacement's decoder, which would collapse any
// decoded stream to a single U+FFFD. A peer that negotiates US-ASCII but
// sends real UTF-8 text must have it pass through unchanged.
func TestUSASCIIDecodePassesThroughUTF8(t *testing.T) {
	tc, err := New("US-ASCII")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	decoded, err := tc.Decode([]byte("héllo"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != "héllo" {
		t.Errorf("got %q, want UTF-8 text to pass through untouched", decoded)
	}
}
