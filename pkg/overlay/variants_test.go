package overlay

import (
	"testing"

	"github.com/matzehuels/poimap/pkg/poi"
)

func TestVariantsCoverEveryKind(t *testing.T) {
	vs := Variants()
	kinds := poi.Kinds()
	if len(vs) != len(kinds) {
		t.Fatalf("%d variants for %d kinds", len(vs), len(kinds))
	}
	for i, k := range kinds {
		if vs[i].Kind != k {
			t.Errorf("variant %d kind = %s, want %s", i, vs[i].Kind, k)
		}
		v, ok := VariantFor(k)
		if !ok {
			t.Errorf("no variant for %s", k)
			continue
		}
		if v.Doggo != k.Doggo() {
			t.Errorf("variant %s doggo = %v, kind says %v", k, v.Doggo, k.Doggo())
		}
		if v.Doggo != v.Anchored {
			t.Errorf("variant %s: doggo variants centre on the offset", k)
		}
		if v.Description == "" {
			t.Errorf("variant %s has no description", k)
		}
	}
}

func TestVariantLabels(t *testing.T) {
	v, _ := VariantFor(poi.KindUniqueReqs)
	got := v.Labels()
	if len(got) != 2 || got[0] != "id" || got[1] != "requirement" {
		t.Errorf("Labels() = %v, want [id requirement]", got)
	}

	a, _ := VariantFor(poi.KindActual)
	if len(a.Labels()) != 0 || a.Layout != LayoutActual {
		t.Errorf("kind A should be an unlabelled actual layout, got %+v", a)
	}
}
