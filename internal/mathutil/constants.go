package mathutil

import "math"

// Preview camera matrices. Meshes are authored Z-up; previews look down
// a tilted axis so that leaf veins and ruffling read as relief.
var (
	// ModelFlip converts Z-up to Y-up: Rx(-90°)
	ModelFlip = RotX(math.Pi / -2)

	// PreviewView is the three-quarter camera used for thumbnails.
	// Rx(-25°) @ Ry(20°) @ MODEL_FLIP
	PreviewView = Mat3Mul(Mat3Mul(RotX(Deg2Rad(-25)), RotY(Deg2Rad(20))), ModelFlip)

	// TopView looks straight down the Z axis.
	TopView = Mat3Identity()
)

// GoldenAngle is the divergence angle used for spiral phyllotaxis, in radians.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))
