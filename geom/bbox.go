package geom

// Bounder is satisfied by anything contained in an axis-aligned bounding
// box. Mirrors model2d.Bounder from the mbrukman/model3d geometry package.
type Bounder interface {
	Min() Vec3
	Max() Vec3
}

// BBox3 is an axis-aligned bounding box over 3D points.
type BBox3 struct {
	MinPt, MaxPt Vec3
}

func (b BBox3) Min() Vec3 { return b.MinPt }
func (b BBox3) Max() Vec3 { return b.MaxPt }

// Diag returns the length of the bounding box diagonal.
func (b BBox3) Diag() float64 {
	return b.MaxPt.Sub(b.MinPt).Norm()
}

// BBoxOf3 computes the bounding box of a slice of 3D points.
func BBoxOf3(pts []Vec3) BBox3 {
	if len(pts) == 0 {
		return BBox3{}
	}
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return BBox3{MinPt: min, MaxPt: max}
}
