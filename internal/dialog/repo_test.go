//go:build integration

package dialog

import (
	"context"
	"testing"

	"github.com/Spok95/poolscreen/internal/infra/db/dbtest"
)

func TestRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewRepo(dbtest.Pool(t))
	chatID := dbtest.ChatID()
	t.Cleanup(func() { _ = r.Reset(context.Background(), chatID) })

	it, err := r.Get(ctx, chatID)
	if err != nil {
		t.Fatal(err)
	}
	if it.State != StateIdle || len(it.Payload) != 0 {
		t.Fatalf("missing row = %+v", it)
	}

	mode := Mode{Material: "2X4", Snap: true, Color: "red", Bar: "0b5e"}
	if err := r.Set(ctx, chatID, StateAwaitLength, mode.Payload()); err != nil {
		t.Fatal(err)
	}
	it, err = r.Get(ctx, chatID)
	if err != nil {
		t.Fatal(err)
	}
	if it.State != StateAwaitLength || ModeOf(it.Payload) != mode {
		t.Fatalf("stored = %+v", it)
	}

	if err := r.Reset(ctx, chatID); err != nil {
		t.Fatal(err)
	}
	if it, _ = r.Get(ctx, chatID); it.State != StateIdle {
		t.Fatalf("after reset = %+v", it)
	}
}
