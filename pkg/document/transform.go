package document

// Transform2D is a 2-D affine transform in row-vector form: applying it to
// a point multiplies the point by the 2x2 linear part (M11, M12, M21, M22)
// and adds the translation (M31, M32). Only translation is ever produced
// from document properties today (PosX/PosY; the property set has no
// rotation or scale), but composition is implemented in full so reparenting
// stays correct if those properties are ever added.
type Transform2D struct {
	M11, M12, M21, M22 float32
	M31, M32           float32
}

// IdentityTransform2D returns the transform that leaves every point fixed.
func IdentityTransform2D() Transform2D {
	return Transform2D{M11: 1, M22: 1}
}

// Translation2D returns a pure-translation transform.
func Translation2D(x, y float32) Transform2D {
	return Transform2D{M11: 1, M22: 1, M31: x, M32: y}
}

// Then composes t followed by other: transforming a point by t.Then(other)
// is equivalent to transforming it by t and then by other.
func (t Transform2D) Then(other Transform2D) Transform2D {
	return Transform2D{
		M11: t.M11*other.M11 + t.M12*other.M21,
		M12: t.M11*other.M12 + t.M12*other.M22,
		M21: t.M21*other.M11 + t.M22*other.M21,
		M22: t.M21*other.M12 + t.M22*other.M22,
		M31: t.M31*other.M11 + t.M32*other.M21 + other.M31,
		M32: t.M31*other.M12 + t.M32*other.M22 + other.M32,
	}
}

// Inverse returns the inverse transform, or false if t is singular.
func (t Transform2D) Inverse() (Transform2D, bool) {
	det := t.M11*t.M22 - t.M12*t.M21
	if det == 0 {
		return Transform2D{}, false
	}
	inv := Transform2D{
		M11: t.M22 / det,
		M12: -t.M12 / det,
		M21: -t.M21 / det,
		M22: t.M11 / det,
	}
	inv.M31 = -(t.M31*inv.M11 + t.M32*inv.M21)
	inv.M32 = -(t.M31*inv.M12 + t.M32*inv.M22)
	return inv, true
}
