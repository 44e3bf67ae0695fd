package landmark

// MinMeshPoints is the size of the MediaPipe face mesh without iris points
const MinMeshPoints = 468

// NoseTip is the mesh index of the nose tip
const NoseTip = 1

// Six-point contours in shape ratio order: p0 and p3 are the horizontal
// corners, (p1, p5) and (p2, p4) are the vertical pairs.
var (
	LeftEyeIndices  = []int{362, 385, 387, 263, 373, 380}
	RightEyeIndices = []int{33, 160, 158, 133, 153, 144}
	MouthIndices    = []int{78, 82, 312, 308, 317, 87}
)
