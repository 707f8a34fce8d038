// Package model contains core data types for the project.
package model

// Kind identifies the case of a computed metric value.
type Kind string

const (
	KindScalar   Kind = "scalar"   // Scalar carries a single number.
	KindText     Kind = "text"     // Text carries a string.
	KindImage    Kind = "image"    // Image carries an array payload with a shape.
	KindSequence Kind = "sequence" // Sequence is an ordered container of values.
	KindMapping  Kind = "mapping"  // Mapping is a string-keyed container of values.
)

// Value is the result of a metric computation. The union is closed:
// Scalar, Text, Image, Sequence and Mapping are the only cases, and
// flattening fails on anything else.
type Value interface {
	Kind() Kind
	isValue()
}

// Scalar is a single numeric value.
type Scalar float64

func (Scalar) Kind() Kind { return KindScalar }
func (Scalar) isValue()   {}

// Text is a single string value.
type Text string

func (Text) Kind() Kind { return KindText }
func (Text) isValue()   {}

// Image is an array-shaped value. The payload is opaque to flattening and
// summary dispatch: batched ([B,H,W,C]) and unbatched ([H,W,C]) images both
// pass through unchanged.
type Image struct {
	Shape  []int     `json:"shape"`
	Pixels []float64 `json:"pixels"`
}

func (Image) Kind() Kind { return KindImage }
func (Image) isValue()   {}

// Size returns the number of elements the shape describes.
func (img Image) Size() int {
	n := 1
	for _, d := range img.Shape {
		n *= d
	}
	return n
}

// Ones builds an image of the given shape with every element set to 1.
func Ones(shape ...int) Image {
	img := Image{Shape: shape}
	img.Pixels = make([]float64, img.Size())
	for i := range img.Pixels {
		img.Pixels[i] = 1
	}
	return img
}

// Sequence is an ordered container of values. It covers both list- and
// tuple-shaped metric results.
type Sequence []Value

func (Sequence) Kind() Kind { return KindSequence }
func (Sequence) isValue()   {}

// Mapping is a string-keyed container of values.
type Mapping map[string]Value

func (Mapping) Kind() Kind { return KindMapping }
func (Mapping) isValue()   {}

// IsLeaf reports whether v cannot be decomposed further by flattening.
func IsLeaf(v Value) bool {
	switch v.Kind() {
	case KindScalar, KindText, KindImage:
		return true
	}
	return false
}
