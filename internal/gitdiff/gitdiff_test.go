package gitdiff

import (
	"reflect"
	"testing"
)

func TestParseNameOnly(t *testing.T) {
	out := "src/api/orders.ts\ndocs/readme.md\nsrc/pages/Shop.tsx\n\nsrc/api/orders.ts\n"
	got := ParseNameOnly(out, []string{".ts", ".tsx", ".js", ".jsx"})
	want := []string{"src/api/orders.ts", "src/pages/Shop.tsx"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseNameOnlyEmpty(t *testing.T) {
	if got := ParseNameOnly("", []string{".ts"}); len(got) != 0 {
		t.Errorf("Expected no paths, got %v", got)
	}
}

func TestParseOverride(t *testing.T) {
	got := ParseOverride(" src/b.ts, ./src/a.ts ,,src/b.ts")
	want := []string{"src/a.ts", "src/b.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
