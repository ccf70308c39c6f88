package memsession

import "testing"

func TestValuesRoundTrip(t *testing.T) {
	sess := New()

	if _, ok := sess.Get("auth_web"); ok {
		t.Fatal("fresh session has values")
	}

	sess.Put("auth_web", "user-1")
	if got, ok := sess.Get("auth_web"); !ok || got != "user-1" {
		t.Fatalf("Get = (%q, %v)", got, ok)
	}

	sess.Forget("auth_web")
	if _, ok := sess.Get("auth_web"); ok {
		t.Fatal("value survived Forget")
	}
}

func TestRegeneratePreservesValues(t *testing.T) {
	sess := NewWithID("fixed-id")
	sess.Put("auth_web", "user-1")

	if err := sess.Regenerate(); err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}

	if sess.SessionID() == "fixed-id" {
		t.Fatal("regenerate kept the old id")
	}
	if got, _ := sess.Get("auth_web"); got != "user-1" {
		t.Fatal("regenerate lost values")
	}

	prev := sess.PreviousIDs()
	if len(prev) != 1 || prev[0] != "fixed-id" {
		t.Fatalf("PreviousIDs = %v", prev)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	sess := New()
	sess.Put("k", "v")

	snapshot := sess.All()
	snapshot["k"] = "tampered"

	if got, _ := sess.Get("k"); got != "v" {
		t.Fatal("All aliases internal storage")
	}
}
