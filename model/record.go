package model

// Record represents a single summary entry persisted by a store: one flat
// path, the leaf kind, the training step and the payload for that kind.
type Record struct {
	Path   string   `json:"path"`             // Flat path produced by flattening.
	Kind   Kind     `json:"kind"`             // Leaf kind: scalar, text or image.
	Step   int64    `json:"step"`             // Training step supplied by the caller.
	Scalar *float64 `json:"scalar,omitempty"` // Payload for scalar records.
	Text   *string  `json:"text,omitempty"`   // Payload for text records.
	Image  *Image   `json:"image,omitempty"`  // Payload for image records.
}

// LeafValue reconstructs the record's payload as a Value. Returns nil when
// the payload field for the record's kind is missing.
func (r *Record) LeafValue() Value {
	switch r.Kind {
	case KindScalar:
		if r.Scalar != nil {
			return Scalar(*r.Scalar)
		}
	case KindText:
		if r.Text != nil {
			return Text(*r.Text)
		}
	case KindImage:
		if r.Image != nil {
			return *r.Image
		}
	}
	return nil
}
