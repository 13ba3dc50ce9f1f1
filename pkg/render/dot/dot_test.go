package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/assetcanvas/pkg/cache"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

func TestToDOT_Basic(t *testing.T) {
	e := hierarchy.Sample()
	dot := ToDOT(e, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"reg-emea" [label="Europe, Middle East & Africa", fillcolor="#2196f3"`) {
		t.Error("ToDOT() output missing colored EMEA region")
	}
	if !strings.Contains(dot, `"`+e.ID+`" -> "reg-apac"`) {
		t.Error("ToDOT() output missing enterprise edge")
	}
	if !strings.Contains(dot, `"loc-green-1-1-1" -> "eq-001"`) {
		t.Error("ToDOT() output missing equipment edge")
	}
	if !strings.Contains(dot, `fillcolor="#bdbdbd"`) {
		t.Error("ToDOT() output missing area fill")
	}
}

func TestToDOT_Depth(t *testing.T) {
	dot := ToDOT(hierarchy.Sample(), Options{Depth: hierarchy.KindPlant})

	if !strings.Contains(dot, `"plant-de-1"`) {
		t.Error("ToDOT() depth=plant should include plants")
	}
	if strings.Contains(dot, `"area-de-1-1"`) {
		t.Error("ToDOT() depth=plant should not include areas")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(hierarchy.Sample(), Options{Detailed: true})

	if !strings.Contains(dot, `type: Melt`) {
		t.Error("ToDOT() detailed output missing equipment type")
	}
	if !strings.Contains(dot, `Model: MV-3000`) {
		t.Error("ToDOT() detailed output missing attribute")
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() equipment should be dashed")
	}
}

func TestToDOT_Nil(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(nil) = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave svg without viewBox untouched")
	}
}

func TestRenderSVGCached_Hit(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := ToDOT(hierarchy.Sample(), Options{Depth: hierarchy.KindRegion})
	want := []byte("<svg>cached</svg>")
	if err := c.Set(ctx, cache.DiagramKey(src, "svg"), want, 0); err != nil {
		t.Fatal(err)
	}

	got, hit, err := RenderSVGCached(ctx, c, src)
	if err != nil {
		t.Fatalf("RenderSVGCached: %v", err)
	}
	if !hit {
		t.Error("expected cache hit")
	}
	if string(got) != string(want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
