package flatten

import (
	"fmt"
	"testing"

	"github.com/and161185/metrics-summary/model"
)

func BenchmarkValues_Flat(b *testing.B) {
	values := make(map[string]model.Value, 100)
	for i := 0; i < 100; i++ {
		values[fmt.Sprintf("metric_%d", i)] = model.Scalar(float64(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Values(values)
	}
}

func BenchmarkValues_Nested(b *testing.B) {
	values := map[string]model.Value{
		"test": model.Mapping{
			"scalars": model.Sequence{model.Scalar(1), model.Scalar(2), model.Scalar(3)},
			"nested": model.Mapping{
				"inner": model.Sequence{
					model.Mapping{"loss": model.Scalar(0.5), "acc": model.Scalar(0.9)},
				},
			},
			"image": model.Ones(12, 12, 3),
		},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Values(values)
	}
}
