package collation

import (
	"reflect"
	"testing"
)

func TestSortStableIgnoresCaseForOrdering(t *testing.T) {
	names := []string{"cherry Room", "Banana Hall", "apple Hall", "Éclair Lounge", "delta"}
	SortStable(names, func(s string) string { return s })

	want := []string{"apple Hall", "Banana Hall", "cherry Room", "delta", "Éclair Lounge"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestSortStableKeepsEqualKeysInOrder(t *testing.T) {
	type item struct {
		name string
		id   int
	}
	items := []item{{"Main", 1}, {"Annex", 2}, {"Main", 3}}
	SortStable(items, func(i item) string { return i.name })

	if items[0].id != 2 || items[1].id != 1 || items[2].id != 3 {
		t.Errorf("unexpected order: %+v", items)
	}
}
