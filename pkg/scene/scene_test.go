package scene

import (
	"strings"
	"testing"

	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/layout"
)

func sampleNodes() []*layout.Node {
	return layout.Overview(hierarchy.Sample())
}

func TestBuildStyling(t *testing.T) {
	tests := []struct {
		typ      layout.DisplayType
		radius   float64
		fontSize float64
		labelY   float64
		color    string
	}{
		{layout.TypeRegion, 15, 18, 25, "#ffffff"},
		{layout.TypePlant, 10, 16, 20, "#ffffff"},
		{layout.TypeArea, 8, 14, 20, "#333333"},
		{layout.TypeLocation, 0, 11, 12, "#333333"},
		{"", 0, 11, 40, "#333333"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			s := Build(&layout.Node{ID: "n", Name: "Node", Type: tt.typ, Width: 200, Height: 80})
			if s.Radius != tt.radius {
				t.Errorf("radius = %v, want %v", s.Radius, tt.radius)
			}
			if s.Label.FontSize != tt.fontSize {
				t.Errorf("font = %v, want %v", s.Label.FontSize, tt.fontSize)
			}
			if s.Label.Y != tt.labelY || s.Label.X != 100 {
				t.Errorf("label anchor = (%v, %v)", s.Label.X, s.Label.Y)
			}
			if s.Label.Color != tt.color {
				t.Errorf("text color = %s", s.Label.Color)
			}
			if s.Label.WrapWidth != 190 {
				t.Errorf("wrap width = %v", s.Label.WrapWidth)
			}
		})
	}
}

func TestBuildNestsChildren(t *testing.T) {
	shapes := BuildAll(sampleNodes())
	if len(shapes) != 3 {
		t.Fatalf("shapes = %d", len(shapes))
	}
	emea := Find(shapes, "reg-emea")
	if emea == nil || len(emea.Children) != 2 {
		t.Fatal("EMEA should hold two plant shapes")
	}
	// Children keep parent-local geometry.
	berlin := emea.Children[0]
	if berlin.Rect != (geom.Rect{X: 20, Y: 50, Width: 310, Height: 100}) {
		t.Errorf("plant rect = %+v", berlin.Rect)
	}
	for _, s := range shapes {
		if s.Interactive || len(s.Handles) != 0 {
			t.Errorf("%s should not be interactive without a target", s.ID)
		}
	}
}

func TestBuildTargetHandles(t *testing.T) {
	shapes := BuildAll(sampleNodes(), WithTarget("plant-uk-1"))
	s := Find(shapes, "plant-uk-1")
	if !s.Interactive {
		t.Fatal("target not interactive")
	}
	move, ok := s.Handle(PartMoveHandle)
	if !ok {
		t.Fatal("no move handle")
	}
	if move.Rect != (geom.Rect{X: 295, Y: 5, Width: 10, Height: 10}) {
		t.Errorf("move handle = %+v", move.Rect)
	}
	resize, ok := s.Handle(PartResizeHandle)
	if !ok {
		t.Fatal("no resize handle")
	}
	if resize.Rect != (geom.Rect{X: 305, Y: 95, Width: 10, Height: 10}) {
		t.Errorf("resize handle = %+v", resize.Rect)
	}
	if Find(shapes, "reg-emea").Interactive {
		t.Error("only the target is interactive")
	}
}

func TestResizeRelayouts(t *testing.T) {
	s := Build(&layout.Node{ID: "a", Name: "Electronics Assembly", Type: layout.TypeArea, Width: 200, Height: 100},
		WithTarget("a"))
	s.Resize(120, 60)

	if s.Rect.Width != 120 || s.Rect.Height != 60 {
		t.Errorf("size = %vx%v", s.Rect.Width, s.Rect.Height)
	}
	if s.Label.WrapWidth != 110 || s.Label.X != 60 {
		t.Errorf("label = %+v", s.Label)
	}
	if len(s.Label.Lines) < 2 {
		t.Errorf("narrow label should wrap: %q", s.Label.Lines)
	}
	resize, _ := s.Handle(PartResizeHandle)
	if resize.Rect.X != 115 || resize.Rect.Y != 55 {
		t.Errorf("resize handle = %+v", resize.Rect)
	}

	s.MoveTo(40, 30)
	if s.Rect.X != 40 || s.Rect.Y != 30 || s.Rect.Width != 120 {
		t.Errorf("MoveTo = %+v", s.Rect)
	}
}

func TestHitTest(t *testing.T) {
	shapes := BuildAll(sampleNodes(), WithTarget("plant-uk-1"))
	// reg-emea at (450,50); plant-uk-1 at (20,170) inside it; 310x100.
	plantOrigin := geom.Point{X: 470, Y: 220}

	tests := []struct {
		name   string
		p      geom.Point
		wantID string
		part   Part
	}{
		{"region body", geom.Point{X: 460, Y: 60}, "reg-emea", PartBody},
		{"plant body", plantOrigin.Add(geom.Point{X: 5, Y: 5}), "plant-uk-1", PartBody},
		{"area over plant", plantOrigin.Add(geom.Point{X: 15, Y: 45}), "area-uk-1-1", PartBody},
		{"move handle", plantOrigin.Add(geom.Point{X: 300, Y: 10}), "plant-uk-1", PartMoveHandle},
		{"resize handle outside body", plantOrigin.Add(geom.Point{X: 314, Y: 104}), "plant-uk-1", PartResizeHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := HitTest(shapes, tt.p)
			if !ok {
				t.Fatal("no hit")
			}
			if hit.Shape.ID != tt.wantID || hit.Part != tt.part {
				t.Errorf("hit = %s/%s, want %s/%s", hit.Shape.ID, hit.Part, tt.wantID, tt.part)
			}
		})
	}

	if _, ok := HitTest(shapes, geom.Point{X: 10, Y: 10}); ok {
		t.Error("empty stage should not hit")
	}
}

func TestHitOrigin(t *testing.T) {
	shapes := BuildAll(sampleNodes())
	hit, ok := HitTest(shapes, geom.Point{X: 480, Y: 265})
	if !ok || hit.Shape.ID != "area-uk-1-1" {
		t.Fatalf("hit = %+v", hit)
	}
	// area's parent is plant-uk-1 at stage (470, 220).
	if hit.Origin != (geom.Point{X: 470, Y: 220}) {
		t.Errorf("origin = %+v", hit.Origin)
	}
}

func TestWalk(t *testing.T) {
	shapes := BuildAll(sampleNodes())
	var ids []string
	origins := map[string]geom.Point{}
	Walk(shapes, func(s *Shape, parent geom.Point) {
		ids = append(ids, s.ID)
		origins[s.ID] = parent
	})
	if len(ids) != 20 {
		t.Errorf("walked %d shapes", len(ids))
	}
	if origins["plant-uk-1"] != (geom.Point{X: 450, Y: 50}) {
		t.Errorf("plant origin = %+v", origins["plant-uk-1"])
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		font  float64
		want  []string
	}{
		{"fits", "Line 1", 200, 11, []string{"Line 1"}},
		{"wraps words", "Pick and Place Machine", 60, 11, []string{"Pick and", "Place", "Machine"}},
		{"splits long word", "Semiconductor", 25, 11, []string{"Semi", "cond", "ucto", "r"}},
		{"keeps newlines", "No data.\nAdd one.", 500, 11, []string{"No data.", "Add one."}},
		{"no width", "a b", 0, 11, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.width, tt.font)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("WrapText = %q, want %q", got, tt.want)
			}
		})
	}
}
