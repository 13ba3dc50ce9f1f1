package layout

import (
	"math"
	"time"

	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/observability"
)

// Overview defaults.
const (
	regionOriginX = 50
	regionOriginY = 50
	regionStride  = 400
	regionWidth   = 350
	regionHeight  = 500

	plantInsetX  = 20
	plantOriginY = 50
	plantStride  = 120
	plantWidth   = 310
	plantHeight  = 100

	areaOriginX = 10
	areaInsetY  = 40
	areaStride  = 100
	areaWidth   = 90
	areaHeight  = 50
)

// Grid defaults shared by both drill modes.
const (
	gridOriginX = 50
	gridOriginY = 100
	gridSpacing = 20
	gridMarginX = 100
	gridMarginY = 150
)

// GridSpec fixes the card clamp and sub-grid shape of one drill mode.
type GridSpec struct {
	MaxCard   geom.Size // upper bound on card size
	SubCols   int       // columns of the nested sub-grid
	SubHeight float64   // height of a nested cell
	SubStride float64   // vertical distance between nested rows
}

var (
	// RegionSpec lays out Plants as cards holding a 3-column Area grid.
	RegionSpec = GridSpec{MaxCard: geom.Size{Width: 300, Height: 200}, SubCols: 3, SubHeight: 35, SubStride: 40}

	// PlantSpec lays out Areas as cards holding a 2-column Location grid.
	PlantSpec = GridSpec{MaxCard: geom.Size{Width: 250, Height: 150}, SubCols: 2, SubHeight: 25, SubStride: 30}
)

// Grid describes a computed card grid.
type Grid struct {
	Cols, Rows int
	Card       geom.Size
}

// Cell returns the default rectangle of the i-th card.
func (g Grid) Cell(i int) geom.Rect {
	col, row := i%g.Cols, i/g.Cols
	return geom.Rect{
		X:      gridOriginX + float64(col)*(g.Card.Width+gridSpacing),
		Y:      gridOriginY + float64(row)*(g.Card.Height+gridSpacing),
		Width:  g.Card.Width,
		Height: g.Card.Height,
	}
}

// NewGrid computes a square-ish grid for n cards: cols = ceil(sqrt(n)),
// rows = ceil(n/cols), each card clamped so the grid fits the viewport.
// Card sizes never drop below one unit.
func NewGrid(n int, viewport geom.Size, spec GridSpec) Grid {
	if n <= 0 {
		return Grid{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	w := math.Min(spec.MaxCard.Width, (viewport.Width-gridMarginX)/float64(cols)-gridSpacing)
	h := math.Min(spec.MaxCard.Height, (viewport.Height-gridMarginY)/float64(rows)-gridSpacing)
	return Grid{Cols: cols, Rows: rows, Card: geom.Size{Width: math.Max(1, w), Height: math.Max(1, h)}}
}

// subCell returns the default rectangle of the i-th nested child of a card.
func (s GridSpec) subCell(i int, card geom.Size) geom.Rect {
	cols := float64(s.SubCols)
	return geom.Rect{
		X:      10 + float64(i%s.SubCols)*(card.Width/cols-15),
		Y:      card.Height/2 + float64(i/s.SubCols)*s.SubStride,
		Width:  card.Width/cols - 20,
		Height: s.SubHeight,
	}
}

// Overview derives the full-enterprise view: Regions with Plants and Areas.
func Overview(e *hierarchy.Enterprise) []*Node {
	start := time.Now()
	if e == nil {
		return observe("overview", start, nil)
	}
	nodes := make([]*Node, 0, len(e.Regions))
	for i, region := range e.Regions {
		rn := newNode(region, RegionColor(region.Code), geom.Rect{
			X: regionOriginX + float64(i)*regionStride, Y: regionOriginY,
			Width: regionWidth, Height: regionHeight,
		})
		for j, plant := range region.Plants {
			pn := newNode(plant, ColorPlant, geom.Rect{
				X: plantInsetX, Y: plantOriginY + float64(j)*plantStride,
				Width: plantWidth, Height: plantHeight,
			})
			for k, area := range plant.Areas {
				pn.Children = append(pn.Children, newNode(area, ColorArea, geom.Rect{
					X: areaOriginX + float64(k)*areaStride, Y: areaInsetY,
					Width: areaWidth, Height: areaHeight,
				}))
			}
			rn.Children = append(rn.Children, pn)
		}
		nodes = append(nodes, rn)
	}
	return observe("overview", start, nodes)
}

// RegionGrid derives the region drill view: the Plants of region as cards.
func RegionGrid(region hierarchy.Region, viewport geom.Size) []*Node {
	start := time.Now()
	if len(region.Plants) == 0 {
		return observe("region", start, nil)
	}
	grid := NewGrid(len(region.Plants), viewport, RegionSpec)
	nodes := make([]*Node, 0, len(region.Plants))
	for i, plant := range region.Plants {
		pn := newNode(plant, ColorPlant, grid.Cell(i))
		for j, area := range plant.Areas {
			pn.Children = append(pn.Children, newNode(area, ColorArea, RegionSpec.subCell(j, grid.Card)))
		}
		nodes = append(nodes, pn)
	}
	return observe("region", start, nodes)
}

// PlantGrid derives the plant drill view: the Areas of plant as cards.
func PlantGrid(plant hierarchy.Plant, viewport geom.Size) []*Node {
	start := time.Now()
	if len(plant.Areas) == 0 {
		return observe("plant", start, nil)
	}
	grid := NewGrid(len(plant.Areas), viewport, PlantSpec)
	nodes := make([]*Node, 0, len(plant.Areas))
	for i, area := range plant.Areas {
		an := newNode(area, ColorArea, grid.Cell(i))
		for j, loc := range area.Locations {
			an.Children = append(an.Children, newNode(loc, ColorLocation, PlantSpec.subCell(j, grid.Card)))
		}
		nodes = append(nodes, an)
	}
	return observe("plant", start, nodes)
}

func observe(mode string, start time.Time, nodes []*Node) []*Node {
	if nodes == nil {
		nodes = []*Node{}
	}
	observability.Layout().OnDerive(mode, Count(nodes), time.Since(start))
	return nodes
}
