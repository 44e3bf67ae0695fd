package calibration

// PoseCount is the number of poses in one calibration batch
const PoseCount = 4

// Pose describes one step of the calibration protocol
type Pose struct {
	Near       bool
	EyesOpen   bool
	MouthOpen  bool
	EyeLabel   float64
	MouthLabel float64
}

// Protocol is the fixed pose order. Trained models only mean something when
// the user follows this order.
var Protocol = [PoseCount]Pose{
	{Near: true, EyesOpen: true, MouthOpen: true, EyeLabel: 1, MouthLabel: 1},
	{Near: true, EyesOpen: false, MouthOpen: false, EyeLabel: 0, MouthLabel: 0},
	{Near: false, EyesOpen: true, MouthOpen: true, EyeLabel: 1, MouthLabel: 1},
	{Near: false, EyesOpen: false, MouthOpen: false, EyeLabel: 0, MouthLabel: 0},
}

// DefaultInstructions are the prompts shown for each pose, indexed like Protocol
var DefaultInstructions = []string{
	"Move close to the camera, open your eyes and mouth wide",
	"Stay close, close your eyes and mouth",
	"Move away from the camera, open your eyes and mouth wide",
	"Stay far away, close your eyes and mouth",
}
