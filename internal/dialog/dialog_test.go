package dialog

import (
	"context"
	"testing"
)

func TestModeRoundTripThroughMemory(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	it, err := st.Get(ctx, 1)
	if err != nil || it.State != StateIdle || len(it.Payload) != 0 {
		t.Fatalf("fresh item = %+v, %v", it, err)
	}

	mode := Mode{Material: "2X4", Snap: true, Color: "red", Bar: "abc"}
	if err := st.Set(ctx, 1, StateAwaitLength, mode.Payload()); err != nil {
		t.Fatal(err)
	}
	it, _ = st.Get(ctx, 1)
	if it.State != StateAwaitLength {
		t.Fatalf("state = %s", it.State)
	}
	if got := ModeOf(it.Payload); got != mode {
		t.Fatalf("mode = %+v", got)
	}

	if err := st.Reset(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if it, _ := st.Get(ctx, 1); it.State != StateIdle {
		t.Fatalf("after reset = %+v", it)
	}
}

func TestModeOfToleratesWrongTypes(t *testing.T) {
	m := ModeOf(Payload{KeyMaterial: 12, KeySnap: "yes"})
	if m.Material != "" || m.Snap {
		t.Fatalf("mode = %+v", m)
	}
	if p := (Mode{}).Payload(); len(p) != 1 {
		t.Fatalf("empty mode payload = %v", p)
	}
}
