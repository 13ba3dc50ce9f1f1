package sink

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/scene"
)

// FrameDoc is the flattened, serializable form of a frame.
type FrameDoc struct {
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	Scale       float64    `json:"scale"`
	Placeholder string     `json:"placeholder,omitempty"`
	Shapes      []ShapeDoc `json:"shapes"`
}

// ShapeDoc is one shape with stage-space geometry, in draw order.
type ShapeDoc struct {
	ID       string      `json:"id"`
	ParentID string      `json:"parentId,omitempty"`
	Type     string      `json:"type"`
	Label    []string    `json:"label"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Radius   float64     `json:"radius"`
	Fill     string      `json:"fill"`
	Target   bool        `json:"target,omitempty"`
	Handles  []HandleDoc `json:"handles,omitempty"`
}

// HandleDoc is a handle square in stage space.
type HandleDoc struct {
	Part string  `json:"part"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// Flatten converts f into draw-ordered shapes with stage-space geometry.
func Flatten(f Frame) FrameDoc {
	out := FrameDoc{
		Width:  f.Size.Width,
		Height: f.Size.Height,
		Scale:  f.Scale,
		Shapes: []ShapeDoc{},
	}
	if f.Empty() {
		out.Placeholder = f.Placeholder
		if out.Placeholder == "" {
			out.Placeholder = Placeholder
		}
	}

	parents := make(map[*scene.Shape]string)
	scene.Walk(f.Shapes, func(s *scene.Shape, origin geom.Point) {
		for _, c := range s.Children {
			parents[c] = s.ID
		}
		abs := origin.Add(s.Rect.Origin())
		doc := ShapeDoc{
			ID:       s.ID,
			ParentID: parents[s],
			Type:     string(s.Type),
			Label:    s.Label.Lines,
			X:        abs.X,
			Y:        abs.Y,
			Width:    s.Rect.Width,
			Height:   s.Rect.Height,
			Radius:   s.Radius,
			Fill:     s.Fill.Hex(),
			Target:   s.Interactive,
		}
		for _, h := range s.Handles {
			doc.Handles = append(doc.Handles, HandleDoc{
				Part: h.Part.String(),
				X:    abs.X + h.Rect.X,
				Y:    abs.Y + h.Rect.Y,
				Size: h.Rect.Width,
			})
		}
		out.Shapes = append(out.Shapes, doc)
	})
	return out
}

// RenderJSON writes the flattened frame as indented JSON.
func RenderJSON(f Frame) ([]byte, error) {
	return json.MarshalIndent(Flatten(f), "", "  ")
}

// RenderMsgpack writes the flattened frame as MessagePack, using the same
// field names as RenderJSON.
func RenderMsgpack(f Frame) ([]byte, error) {
	return MarshalMsgpack(Flatten(f))
}

// MarshalMsgpack encodes v with json struct tags as MessagePack keys.
func MarshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
