//go:build integration

package catalog

import (
	"context"
	"testing"

	"github.com/Spok95/poolscreen/internal/infra/db/dbtest"
)

func TestRepoLoadsSeededTable(t *testing.T) {
	c, err := NewRepo(dbtest.Pool(t)).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !c.Sentinel().IsSentinel() {
		t.Fatalf("first entry = %+v", c.Sentinel())
	}
	want := MustDefault()
	for _, m := range want.Types() {
		got, ok := c.ByName(m.Name)
		if !ok || got != m {
			t.Fatalf("%s: got %+v ok=%v, want %+v", m.Name, got, ok, m)
		}
	}
}
