package nav

import "testing"

func TestBuildMainAnchors(t *testing.T) {
	items := Build(Main, "")
	want := []string{"#plans", "#why", "#personalise", "#about", "#contact"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, it := range items {
		if it.Href != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], it.Href)
		}
		if it.Active {
			t.Errorf("item %d should not be active", i)
		}
	}
}

func TestBuildMarksCurrent(t *testing.T) {
	items := Build(Footer, "#personalise")
	var active []string
	for _, it := range items {
		if it.Active {
			active = append(active, it.Href)
		}
	}
	if len(active) != 1 || active[0] != "#personalise" {
		t.Fatalf("unexpected active items %v", active)
	}
}
