package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDuration_UnmarshalString(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"24h"`), &d); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if d.Duration != 24*time.Hour {
		t.Fatalf("expected 24h, got %v", d.Duration)
	}
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`1000000000`), &d); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if d.Duration != time.Second {
		t.Fatalf("expected 1s, got %v", d.Duration)
	}
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatalf("expected an error for a malformed duration string")
	}
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatalf("expected an error for a non-duration JSON value")
	}
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	in := Duration{90 * time.Minute}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var out Duration
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if out.Duration != in.Duration {
		t.Fatalf("round trip mismatch: %v != %v", out.Duration, in.Duration)
	}
}
