package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/layout"
	"github.com/matzehuels/assetcanvas/pkg/scene"
)

const amerID = "bc7cb265-7b9f-4fb2-86d1-31f3599974a2"

func overviewFrame(opts ...scene.Option) Frame {
	nodes := layout.Overview(hierarchy.Sample())
	return Frame{
		Shapes: scene.BuildAll(nodes, opts...),
		Scale:  1,
		Size:   geom.Size{Width: 1200, Height: 800},
	}
}

func TestRenderSVG(t *testing.T) {
	f := overviewFrame()
	f.Scale = 0.5
	svg := string(RenderSVG(f))

	checks := []string{
		`viewBox="0 0 1200.0 800.0"`,
		`fill="#f5f5f5"`,
		`<g transform="scale(0.5)">`,
		`<g transform="translate(50 50)">`,
		`<g transform="translate(450 50)">`,
		`fill="#4caf50" fill-opacity="0.7" stroke="#333333" stroke-width="2"`,
		`&amp;`,
	}
	for _, want := range checks {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if strings.Contains(svg, "handle") {
		t.Error("no target set, no handles expected")
	}
	if strings.Contains(svg, `id="shape-`) {
		t.Error("ids should only be emitted with WithIDs")
	}
}

func TestRenderSVG_Options(t *testing.T) {
	svg := string(RenderSVG(overviewFrame(scene.WithTarget("reg-apac")), WithBackground("#ffffff"), WithIDs()))

	for _, want := range []string{
		`fill="#ffffff"`,
		`id="shape-reg-apac" data-type="region" data-target="true"`,
		`class="handle handle-move"`,
		`class="handle handle-resize"`,
		`id="shape-plant-jp-1" data-type="plant">`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
}

func TestRenderSVG_Placeholder(t *testing.T) {
	svg := string(RenderSVG(Frame{}))
	if !strings.Contains(svg, `width="800" height="600"`) {
		t.Error("empty frame should fall back to 800x600")
	}
	if !strings.Contains(svg, "No equipment data available.") || !strings.Contains(svg, "Add regions to get started.") {
		t.Error("placeholder text missing")
	}
	if strings.Contains(svg, "scale(") {
		t.Error("placeholder frame should not draw a scene group")
	}

	custom := string(RenderSVG(Frame{Placeholder: "Nothing here"}))
	if !strings.Contains(custom, "Nothing here") {
		t.Error("custom placeholder ignored")
	}
}

func TestRenderJSON(t *testing.T) {
	f := overviewFrame(scene.WithTarget("9fac8a3e-36ba-4631-94c6-c192a83f47a6"))
	data, err := RenderJSON(f)
	if err != nil {
		t.Fatal(err)
	}

	var out FrameDoc
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if want := layout.Count(layout.Overview(hierarchy.Sample())); len(out.Shapes) != want {
		t.Fatalf("shapes = %d, want %d", len(out.Shapes), want)
	}
	if out.Placeholder != "" {
		t.Error("non-empty frame should have no placeholder")
	}

	var plant *ShapeDoc
	for i := range out.Shapes {
		if out.Shapes[i].ID == "9fac8a3e-36ba-4631-94c6-c192a83f47a6" {
			plant = &out.Shapes[i]
		}
	}
	if plant == nil {
		t.Fatal("Greenwood missing")
	}
	// Region stored at 50,50 and the plant at 20,50 inside it.
	if plant.X != 70 || plant.Y != 100 || plant.ParentID != amerID {
		t.Errorf("plant = %+v", plant)
	}
	if !plant.Target || len(plant.Handles) != 2 {
		t.Errorf("target handles = %+v", plant.Handles)
	}
	if h := plant.Handles[1]; h.Part != "resize" || h.X != 70+310-5 || h.Y != 100+100-5 {
		t.Errorf("resize handle = %+v", h)
	}
}

func TestRenderJSON_Empty(t *testing.T) {
	data, err := RenderJSON(Frame{})
	if err != nil {
		t.Fatal(err)
	}
	var out FrameDoc
	json.Unmarshal(data, &out)
	if out.Placeholder != Placeholder || out.Shapes == nil || len(out.Shapes) != 0 {
		t.Errorf("empty output = %+v", out)
	}
}

func TestSurface(t *testing.T) {
	factory := NewSurfaceFactory()
	vs, err := factory(context.Background(), geom.Size{Width: 640, Height: 480})
	if err != nil {
		t.Fatal(err)
	}
	s := vs.(*Surface)

	if err := s.Present(overviewFrame()); err != nil {
		t.Fatal(err)
	}
	f, v := s.Frame()
	if v != 1 || f.Size != (geom.Size{Width: 640, Height: 480}) {
		t.Errorf("frame v%d size %+v", v, f.Size)
	}

	s.Resize(geom.Size{Width: 1024, Height: 768})
	s.Present(overviewFrame())
	if f, v := s.Frame(); v != 2 || f.Size.Width != 1024 {
		t.Errorf("after resize: v%d %+v", v, f.Size)
	}
	if !strings.Contains(string(s.SVG()), `width="1024"`) {
		t.Error("SVG should use the surface size")
	}

	s.Destroy()
	if err := s.Present(overviewFrame()); !errors.Is(err, errors.ErrCodeSurfaceInit) {
		t.Errorf("present after destroy err = %v", err)
	}
}

func TestSurfaceFactoryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSurfaceFactory()(ctx, geom.Size{Width: 1, Height: 1}); err == nil {
		t.Error("factory should honor a cancelled context")
	}
}

func TestContainer(t *testing.T) {
	c := NewContainer(geom.Size{})
	s := NewSurface(geom.Size{Width: 1, Height: 1})

	c.Attach(s)
	c.Attach(s)
	if c.Attached() != 1 || !c.Contains(s) {
		t.Errorf("attached = %d", c.Attached())
	}
	c.Detach(s)
	if c.Contains(s) {
		t.Error("detach failed")
	}
	c.SetSize(geom.Size{Width: 5, Height: 6})
	if c.Size() != (geom.Size{Width: 5, Height: 6}) {
		t.Errorf("size = %+v", c.Size())
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50, "50"},
		{0.5, "0.5"},
		{1.25, "1.25"},
		{-0.001, "0"},
		{233.3333, "233.33"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderMsgpack(t *testing.T) {
	data, err := RenderMsgpack(overviewFrame())
	if err != nil {
		t.Fatal(err)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	var out FrameDoc
	if err := dec.Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Width != 1200 || len(out.Shapes) != len(Flatten(overviewFrame()).Shapes) {
		t.Errorf("decoded %v wide with %d shapes", out.Width, len(out.Shapes))
	}
	if out.Shapes[0].ID != amerID || out.Shapes[0].Fill != "#4caf50" {
		t.Errorf("first shape = %+v", out.Shapes[0])
	}
}
