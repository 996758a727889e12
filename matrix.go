package willow3d

import "github.com/go-gl/mathgl/mgl32"

// Matrix layout: column-major, GLSL style (m[col*4+row]).
//
//	| m0  m4  m8  m12 |
//	| m1  m5  m9  m13 |
//	| m2  m6  m10 m14 |
//	| m3  m7  m11 m15 |

// LookAt returns a right-handed view matrix looking from eye towards center.
//
// No validation is done: if up is parallel to center-eye, or eye equals
// center, the basis cannot be built and the result contains NaNs.
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, center, up)
}

// PerspectiveMatrix returns a symmetric perspective projection. fovDegrees
// is the vertical field of view.
//
// 0 < near < far is expected but not checked. near == far yields infinite
// depth coefficients and near <= 0 yields a matrix that cannot be inverted.
func PerspectiveMatrix(fovDegrees, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, near, far)
}

// MulVec4 returns m * v.
func MulVec4(m mgl32.Mat4, v mgl32.Vec4) mgl32.Vec4 {
	return m.Mul4x1(v)
}

// TransformPoint applies m to the homogeneous point (p, 1) and returns the
// xyz part. w is dropped without division, so projective matrices are not
// meaningful here.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return MulVec4(m, p.Vec4(1)).Vec3()
}

// FlipVertical negates the vertical basis row (row 1) of a view matrix,
// mirroring the rendered image upside down. Readback returns rows
// bottom-up; flipping the view compensates so the captured stream is
// top-down.
func FlipVertical(m mgl32.Mat4) mgl32.Mat4 {
	m[1], m[5], m[9], m[13] = -m[1], -m[5], -m[9], -m[13]
	return m
}
