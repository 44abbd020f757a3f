package math3d

import "testing"

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.MulVec4(v)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	// Same composition the camera does once per frame.
	view := LookAt(V3(0, 1.2, 3), V3(0, 0.5, 0), V3(0, 1, 0))
	proj := Perspective(0.61, 1.333, 0.1, 1000.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = proj.Mul(view)
	}
}
