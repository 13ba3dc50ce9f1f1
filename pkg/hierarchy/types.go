package hierarchy

import (
	"fmt"

	"github.com/matzehuels/assetcanvas/pkg/geom"
)

// Kind identifies a hierarchy variant.
type Kind int

const (
	KindRegion Kind = iota + 1
	KindPlant
	KindArea
	KindLocation
	KindEquipment
)

var kindNames = map[Kind]string{
	KindRegion:    "region",
	KindPlant:     "plant",
	KindArea:      "area",
	KindLocation:  "location",
	KindEquipment: "equipment",
}

// String returns the lowercase kind name ("region", "plant", ...).
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown kind %q", string(b))
	}
	*k = v
	return nil
}

// ChildKind returns the kind a node of kind k contains.
// Equipment nests equipment; every other level holds the next level down.
func (k Kind) ChildKind() Kind {
	switch k {
	case KindRegion:
		return KindPlant
	case KindPlant:
		return KindArea
	case KindArea:
		return KindLocation
	case KindLocation, KindEquipment:
		return KindEquipment
	}
	return 0
}

// CanContain reports whether a node of kind parent may hold a child of kind child.
func CanContain(parent, child Kind) bool {
	return parent.ChildKind() == child && child != 0
}

// Geometry holds optional, parent-local placement for a node.
// A nil field means "not stored"; the layout engine then computes a default.
type Geometry struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Merge returns g with every field set in p replaced.
func (g Geometry) Merge(p geom.Patch) Geometry {
	if p.X != nil {
		g.X = geom.Float(*p.X)
	}
	if p.Y != nil {
		g.Y = geom.Float(*p.Y)
	}
	if p.Width != nil {
		g.Width = geom.Float(*p.Width)
	}
	if p.Height != nil {
		g.Height = geom.Float(*p.Height)
	}
	return g
}

// Resolve returns def with every stored field substituted. Stored geometry
// always wins over the computed default.
func (g Geometry) Resolve(def geom.Rect) geom.Rect {
	return geom.Patch{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}.ApplyTo(def)
}

// Complete reports whether all four fields are stored.
func (g Geometry) Complete() bool {
	return g.X != nil && g.Y != nil && g.Width != nil && g.Height != nil
}

// RegionCode is the regional grouping of a Region.
type RegionCode string

const (
	CodeAMER RegionCode = "AMER"
	CodeEMEA RegionCode = "EMEA"
	CodeAPAC RegionCode = "APAC"
)

// AttributeType enumerates equipment attribute value types.
type AttributeType string

const (
	AttrString   AttributeType = "string"
	AttrNumber   AttributeType = "number"
	AttrBoolean  AttributeType = "boolean"
	AttrDate     AttributeType = "date"
	AttrDateTime AttributeType = "datetime"
	AttrTime     AttributeType = "time"
	AttrEnum     AttributeType = "enum"
	AttrObject   AttributeType = "object"
	AttrArray    AttributeType = "array"
)

// AttributeDefinition describes one equipment attribute.
type AttributeDefinition struct {
	Name         string        `json:"name"`
	Type         AttributeType `json:"type"`
	Required     bool          `json:"required"`
	DefaultValue any           `json:"defaultValue,omitempty"`
	EnumValues   []string      `json:"enumValues,omitempty"`
}

// Attribute is a typed value attached to equipment.
type Attribute struct {
	Definition AttributeDefinition `json:"definition"`
	Value      any                 `json:"value"`
}

// Enterprise is the root of the hierarchy.
type Enterprise struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Regions []Region `json:"regions"`
}

// Region groups plants.
type Region struct {
	ID     string     `json:"id"`
	Code   RegionCode `json:"code"`
	Name   string     `json:"name"`
	Plants []Plant    `json:"plants"`
	Geometry
}

// Plant groups areas.
type Plant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RegionID string `json:"regionId,omitempty"`
	Areas    []Area `json:"areas"`
	Geometry
}

// Area groups locations.
type Area struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	PlantID   string     `json:"plantId,omitempty"`
	Locations []Location `json:"locations"`
	Geometry
}

// Location holds equipment.
type Location struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	AreaID    string      `json:"areaId,omitempty"`
	Equipment []Equipment `json:"equipment"`
	Geometry
}

// Equipment is a leaf asset; it may nest further equipment.
type Equipment struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Type           string      `json:"type"`
	Attributes     []Attribute `json:"attributes"`
	ChildEquipment []Equipment `json:"childEquipment,omitempty"`
	ParentID       string      `json:"parentId,omitempty"`
	Geometry
}
