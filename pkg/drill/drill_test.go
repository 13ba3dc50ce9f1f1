package drill

import (
	"testing"

	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/layout"
)

var viewport = geom.Size{Width: 1200, Height: 800}

func overview(t *testing.T) (*hierarchy.Enterprise, []*layout.Node) {
	t.Helper()
	e := hierarchy.Sample()
	return e, layout.Overview(e)
}

func TestEnter(t *testing.T) {
	e, nodes := overview(t)
	nav := NewNavigator()

	// Clicking a plant in the overview only selects.
	if nav.Enter(layout.Find(nodes, "plant-de-1")) {
		t.Error("plant click in overview should not change mode")
	}

	if !nav.Enter(layout.Find(nodes, "reg-emea")) {
		t.Fatal("region click should enter region mode")
	}
	st := nav.State()
	if st.Mode != RegionMode || st.Region.ID != "reg-emea" || st.Plant != nil {
		t.Fatalf("state = %+v", st)
	}

	plants, _ := nav.Derive(e, viewport)
	if !nav.Enter(layout.Find(plants, "plant-uk-1")) {
		t.Fatal("plant click in region mode should enter plant mode")
	}
	st = nav.State()
	if st.Mode != PlantMode || st.Plant.ID != "plant-uk-1" || st.Region.ID != "reg-emea" {
		t.Fatalf("state = %+v", st)
	}

	areas, _ := nav.Derive(e, viewport)
	if nav.Enter(layout.Find(areas, "area-uk-1-1")) {
		t.Error("area click in plant mode should not change mode")
	}
}

func TestDrillIntoAreaFromOverview(t *testing.T) {
	_, nodes := overview(t)
	nav := NewNavigator()

	if !nav.DrillInto(layout.Find(nodes, "area-jp-1-2"), nodes) {
		t.Fatal("DrillInto returned false")
	}
	st := nav.State()
	if st.Mode != PlantMode {
		t.Fatalf("mode = %s", st.Mode)
	}
	if st.Region.ID != "reg-apac" || st.Plant.ID != "plant-jp-1" {
		t.Errorf("zoomed = %s / %s", st.Region.ID, st.Plant.ID)
	}
}

func TestDrillIntoPlantFromOverview(t *testing.T) {
	_, nodes := overview(t)
	nav := NewNavigator()

	if !nav.DrillInto(layout.Find(nodes, "plant-mx-1"), nodes) {
		t.Fatal("DrillInto returned false")
	}
	st := nav.State()
	if st.Mode != PlantMode || st.Plant.ID != "plant-mx-1" {
		t.Fatalf("state = %+v", st)
	}
	if st.Region.ID != "bc7cb265-7b9f-4fb2-86d1-31f3599974a2" {
		t.Errorf("region = %s", st.Region.ID)
	}
}

func TestDrillIntoAreaFromRegion(t *testing.T) {
	e, nodes := overview(t)
	nav := NewNavigator()
	nav.Enter(layout.Find(nodes, "reg-emea"))
	plants, _ := nav.Derive(e, viewport)

	if !nav.DrillInto(layout.Find(plants, "area-de-1-2"), plants) {
		t.Fatal("DrillInto returned false")
	}
	st := nav.State()
	if st.Mode != PlantMode || st.Plant.ID != "plant-de-1" || st.Region.ID != "reg-emea" {
		t.Errorf("state = %+v", st)
	}
}

func TestDrillIntoUnresolvable(t *testing.T) {
	nav := NewNavigator()
	orphan := &layout.Node{ID: "x", Type: layout.TypeArea}
	if nav.DrillInto(orphan, nil) {
		t.Error("orphan area should not drill")
	}
	if nav.DrillInto(&layout.Node{ID: "r", Type: layout.TypeRegion}, nil) {
		t.Error("region double click does not drill")
	}
	if nav.State().Mode != Overview {
		t.Error("state should be unchanged")
	}
}

func TestBack(t *testing.T) {
	_, nodes := overview(t)
	nav := NewNavigator()
	nav.DrillInto(layout.Find(nodes, "area-cn-1-1"), nodes)
	region := nav.State().Region

	if !nav.Back() {
		t.Fatal("Back from plant mode")
	}
	st := nav.State()
	if st.Mode != RegionMode || st.Region != region || st.Plant != nil {
		t.Errorf("after first back = %+v", st)
	}

	if !nav.Back() {
		t.Fatal("Back from region mode")
	}
	st = nav.State()
	if st.Mode != Overview || st.Region != nil || st.Plant != nil {
		t.Errorf("after second back = %+v", st)
	}
	if nav.Back() || nav.BackVisible() {
		t.Error("overview has no back")
	}
}

func TestDeriveResetsWhenRegionRemoved(t *testing.T) {
	e, nodes := overview(t)
	nav := NewNavigator()
	nav.DrillInto(layout.Find(nodes, "area-au-1-1"), nodes)

	pruned, err := hierarchy.Remove(e, "reg-apac")
	if err != nil {
		t.Fatal(err)
	}
	got, st := nav.Derive(pruned, viewport)
	if st.Mode != Overview || nav.State().Mode != Overview {
		t.Fatalf("mode = %s", st.Mode)
	}
	if len(got) != 2 {
		t.Errorf("overview regions = %d", len(got))
	}
}

func TestDeriveFallsBackWhenPlantRemoved(t *testing.T) {
	e, nodes := overview(t)
	nav := NewNavigator()
	nav.DrillInto(layout.Find(nodes, "area-au-1-1"), nodes)

	pruned, _ := hierarchy.Remove(e, "plant-au-1")
	got, st := nav.Derive(pruned, viewport)
	if st.Mode != RegionMode || st.Region.ID != "reg-apac" || st.Plant != nil {
		t.Fatalf("state = %+v", st)
	}
	if len(got) != 2 {
		t.Errorf("plants = %d, want 2", len(got))
	}
}

func TestDeriveUsesCurrentData(t *testing.T) {
	e, nodes := overview(t)
	nav := NewNavigator()
	nav.Enter(layout.Find(nodes, "reg-emea"))

	renamed, _ := hierarchy.Rename(e, "reg-emea", "EMEA")
	added, _ := hierarchy.AddChild(renamed, "reg-emea", hierarchy.Plant{ID: "plant-fr-1", Name: "Lyon"})
	got, st := nav.Derive(added, viewport)
	if len(got) != 3 {
		t.Errorf("plants = %d, want 3", len(got))
	}
	if st.Region.Name != "EMEA" {
		t.Errorf("region name = %q", st.Region.Name)
	}
	if got := st.Breadcrumb(); len(got) != 1 || got[0] != "EMEA" {
		t.Errorf("breadcrumb = %v", got)
	}
}

func TestReset(t *testing.T) {
	_, nodes := overview(t)
	nav := NewNavigator()
	nav.Enter(layout.Find(nodes, "reg-emea"))
	nav.Reset()
	if nav.State().Mode != Overview || nav.State().Region != nil {
		t.Error("Reset should return to overview")
	}
}
