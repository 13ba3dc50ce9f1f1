package hierarchy

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
)

func TestSampleIsValid(t *testing.T) {
	e := Sample()
	if err := Validate(e); err != nil {
		t.Fatalf("Validate(Sample()) = %v", err)
	}
	if len(e.Regions) != 3 {
		t.Fatalf("regions = %d, want 3", len(e.Regions))
	}
	counts := Count(e)
	if counts[KindPlant] != 7 {
		t.Errorf("plants = %d, want 7", counts[KindPlant])
	}
	if counts[KindEquipment] != 15 {
		t.Errorf("equipment = %d, want 15", counts[KindEquipment])
	}
	if !e.Regions[0].Geometry.Complete() {
		t.Error("first region should carry stored geometry")
	}
	if e.Regions[1].X != nil {
		t.Error("second region should have no stored geometry")
	}
}

func TestFind(t *testing.T) {
	e := Sample()

	n, path, ok := Find(e, "loc-cn-1-1-2")
	if !ok {
		t.Fatal("location not found")
	}
	if n.Kind() != KindLocation || n.NodeName() != "Line 2" {
		t.Errorf("got %s %q", n.Kind(), n.NodeName())
	}
	wantPath := []string{"reg-apac", "plant-cn-1", "area-cn-1-1"}
	if len(path) != len(wantPath) {
		t.Fatalf("path len = %d, want %d", len(path), len(wantPath))
	}
	for i, id := range wantPath {
		if path[i].NodeID() != id {
			t.Errorf("path[%d] = %q, want %q", i, path[i].NodeID(), id)
		}
	}

	if _, _, ok := Find(e, "missing"); ok {
		t.Error("Find(missing) should fail")
	}
	if _, _, ok := Find(nil, "reg-apac"); ok {
		t.Error("Find on nil enterprise should fail")
	}
}

func TestApplyPatch(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		patch geom.Patch
		check func(t *testing.T, n Node)
	}{
		{
			name:  "move region",
			id:    "reg-emea",
			patch: geom.MovePatch(500, 60),
			check: func(t *testing.T, n Node) {
				g := n.Geom()
				if *g.X != 500 || *g.Y != 60 {
					t.Errorf("position = (%v, %v)", *g.X, *g.Y)
				}
				if g.Width != nil || g.Height != nil {
					t.Error("size should stay unset")
				}
			},
		},
		{
			name:  "resize deep location",
			id:    "loc-green-1-1-1",
			patch: geom.ResizePatch(140, 80),
			check: func(t *testing.T, n Node) {
				g := n.Geom()
				if *g.X != 10 || *g.Y != 10 {
					t.Error("position must be preserved")
				}
				if *g.Width != 140 || *g.Height != 80 {
					t.Errorf("size = %vx%v", *g.Width, *g.Height)
				}
				if len(n.Children()) != 2 {
					t.Error("equipment must be preserved")
				}
			},
		},
		{
			name:  "nested equipment",
			id:    "eq-011",
			patch: geom.Patch{Height: geom.Float(12)},
			check: func(t *testing.T, n Node) {
				if n.Geom().Height == nil || *n.Geom().Height != 12 {
					t.Error("height not applied")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := Sample()
			before, _ := json.Marshal(orig)

			next, ok := ApplyPatch(orig, tt.id, tt.patch)
			if !ok {
				t.Fatal("ApplyPatch reported not found")
			}
			n, _, _ := Find(next, tt.id)
			tt.check(t, n)

			after, _ := json.Marshal(orig)
			if string(before) != string(after) {
				t.Error("original enterprise was mutated")
			}
		})
	}
}

func TestApplyPatchUnknownID(t *testing.T) {
	e := Sample()
	next, ok := ApplyPatch(e, "nope", geom.MovePatch(1, 1))
	if ok {
		t.Error("unknown id should report false")
	}
	if next != e {
		t.Error("unknown id should return the same enterprise")
	}
}

func TestApplyPatchSharesSiblings(t *testing.T) {
	e := Sample()
	next, _ := ApplyPatch(e, "plant-mx-1", geom.MovePatch(0, 0))

	// Untouched regions are shared by value, their plant slices alias.
	if &next.Regions[1].Plants[0] != &e.Regions[1].Plants[0] {
		t.Error("sibling region subtree should be shared")
	}
	if &next.Regions[0].Plants[0] == &e.Regions[0].Plants[0] {
		t.Error("ancestor level on the path should be copied")
	}
}

func TestReplaceRejectsKindChange(t *testing.T) {
	e := Sample()
	_, ok := Replace(e, "plant-uk-1", func(Node) Node { return Area{ID: "plant-uk-1"} })
	if ok {
		t.Error("kind-changing replacement should be rejected")
	}
}

func TestAddChild(t *testing.T) {
	tests := []struct {
		name     string
		parentID string
		child    Node
		wantCode errors.Code
	}{
		{"plant under region", "reg-emea", Plant{ID: "plant-fr-1", Name: "Paris"}, ""},
		{"equipment under equipment", "eq-005", Equipment{ID: "eq-005-a", Name: "Spindle"}, ""},
		{"area under region", "reg-emea", Area{ID: "area-x", Name: "X"}, errors.ErrCodeInvalidKind},
		{"duplicate id", "reg-emea", Plant{ID: "plant-uk-1", Name: "Dup"}, errors.ErrCodeDuplicateID},
		{"missing parent", "nope", Plant{ID: "p", Name: "P"}, errors.ErrCodeNodeNotFound},
		{"bad id", "reg-emea", Plant{ID: "a b", Name: "P"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Sample()
			next, err := AddChild(e, tt.parentID, tt.child)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want code %s", err, tt.wantCode)
				}
				if next != e {
					t.Error("failed add should return the input")
				}
				return
			}
			if err != nil {
				t.Fatalf("AddChild: %v", err)
			}
			_, path, ok := Find(next, tt.child.NodeID())
			if !ok {
				t.Fatal("child not found after add")
			}
			if path[len(path)-1].NodeID() != tt.parentID {
				t.Errorf("parent = %q", path[len(path)-1].NodeID())
			}
			if _, _, ok := Find(e, tt.child.NodeID()); ok {
				t.Error("original enterprise was mutated")
			}
		})
	}
}

func TestAddChildSetsBackReference(t *testing.T) {
	next, err := AddChild(Sample(), "reg-apac", Plant{ID: "plant-kr-1", Name: "Seoul"})
	if err != nil {
		t.Fatal(err)
	}
	n, _, _ := Find(next, "plant-kr-1")
	if n.(Plant).RegionID != "reg-apac" {
		t.Errorf("RegionID = %q", n.(Plant).RegionID)
	}
}

func TestAddRegion(t *testing.T) {
	e := Sample()
	next, err := AddRegion(e, Region{ID: "reg-latam", Code: CodeAMER, Name: "LatAm"})
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Regions) != 4 || len(e.Regions) != 3 {
		t.Errorf("regions = %d/%d", len(next.Regions), len(e.Regions))
	}
	if _, err := AddRegion(next, Region{ID: "reg-latam"}); !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("duplicate region err = %v", err)
	}
}

func TestRemove(t *testing.T) {
	e := Sample()

	next, err := Remove(e, "area-jp-1-2")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := Find(next, "eq-012"); ok {
		t.Error("descendants should be removed with their ancestor")
	}
	if _, _, ok := Find(next, "area-jp-1-1"); !ok {
		t.Error("sibling should survive")
	}
	if _, _, ok := Find(e, "area-jp-1-2"); !ok {
		t.Error("original enterprise was mutated")
	}

	next, err = Remove(e, "reg-emea")
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Regions) != 2 || next.Regions[1].ID != "reg-apac" {
		t.Error("region removal should keep order")
	}

	if _, err := Remove(e, "nope"); !errors.IsNotFound(err) {
		t.Errorf("Remove(nope) = %v", err)
	}
}

func TestRename(t *testing.T) {
	next, err := Rename(Sample(), "plant-uk-1", "London Hub")
	if err != nil {
		t.Fatal(err)
	}
	n, _, _ := Find(next, "plant-uk-1")
	if n.NodeName() != "London Hub" {
		t.Errorf("name = %q", n.NodeName())
	}
	if _, err := Rename(next, "plant-uk-1", "  "); !errors.IsValidation(err) {
		t.Errorf("blank name err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	dup := Sample()
	dup.Regions[2].Plants[0].ID = "plant-uk-1"
	if err := Validate(dup); !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("duplicate err = %v", err)
	}

	neg := Sample()
	neg.Regions[1].Width = geom.Float(-5)
	if err := Validate(neg); !errors.Is(err, errors.ErrCodeInvalidHierarchy) {
		t.Errorf("negative size err = %v", err)
	}

	if err := Validate(nil); err == nil {
		t.Error("nil enterprise should fail")
	}
}

func TestContainsAndCanContain(t *testing.T) {
	r, _ := Sample().Region("reg-apac")
	if !Contains(r, "eq-015") {
		t.Error("region should contain nested equipment")
	}
	if Contains(r, "eq-001") {
		t.Error("region should not contain foreign equipment")
	}

	if !CanContain(KindLocation, KindEquipment) || !CanContain(KindEquipment, KindEquipment) {
		t.Error("equipment containment")
	}
	if CanContain(KindRegion, KindArea) {
		t.Error("region cannot hold areas directly")
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindRegion, KindPlant, KindArea, KindLocation, KindEquipment} {
		b, _ := k.MarshalText()
		var got Kind
		if err := got.UnmarshalText(b); err != nil || got != k {
			t.Errorf("round trip %s = %v, %v", k, got, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("site")); err == nil {
		t.Error("unknown kind should fail")
	}
}

func TestNewNode(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		id      string
		label   string
		wantErr errors.Code
	}{
		{"region", KindRegion, "r-1", "North", ""},
		{"plant", KindPlant, "p-1", "Plant", ""},
		{"equipment", KindEquipment, "e-1", "Pump", ""},
		{"bad id", KindArea, "a 1", "Area", errors.ErrCodeInvalidInput},
		{"empty name", KindArea, "a-1", " ", errors.ErrCodeInvalidInput},
		{"bad kind", Kind(42), "x-1", "X", errors.ErrCodeInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNode(tt.kind, tt.id, tt.label, "pump")
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if n.Kind() != tt.kind || n.NodeID() != tt.id || n.NodeName() != tt.label {
				t.Errorf("node = %+v", n)
			}
			if len(n.Children()) != 0 {
				t.Error("new node should have no children")
			}
		})
	}
}
