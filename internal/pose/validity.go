package pose

// MinFrameConfidence is the aggregate-visibility threshold below which a
// frame is considered unusable for gait analysis.
const MinFrameConfidence = 0.5

// keyLandmarks are the anatomically important points the validity filter
// scores: a frame where these are poorly visible contributes noise to every
// downstream calculator.
var keyLandmarks = []Landmark{
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
	LeftShoulder, RightShoulder,
}

// FrameConfidence computes an aggregate confidence for one frame as the
// mean visibility of the key running landmarks. Landmark indices beyond the
// slice are treated as zero visibility.
func FrameConfidence(landmarks []PoseLandmark) float64 {
	if len(landmarks) == 0 {
		return 0
	}
	var total float64
	for _, idx := range keyLandmarks {
		if int(idx) < len(landmarks) {
			total += landmarks[idx].Visibility
		}
	}
	return total / float64(len(keyLandmarks))
}

// IsUsable reports whether a frame's landmarks are confident enough to feed
// the metrics pipeline.
func IsUsable(landmarks []PoseLandmark) bool {
	return FrameConfidence(landmarks) >= MinFrameConfidence
}

// FilterUsable returns the subsequence of frames that pass the validity
// filter. Order is preserved; the input is not modified.
func FilterUsable(frames []FramePose) []FramePose {
	usable := make([]FramePose, 0, len(frames))
	for _, f := range frames {
		if IsUsable(f.Landmarks) {
			usable = append(usable, f)
		}
	}
	return usable
}
