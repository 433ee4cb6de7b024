package videofiles

// Role names a semantic slot in the facility manifest.
type Role string

const (
	EyeTracking      Role = "eye_tracking"
	FaceTracking     Role = "face_tracking"
	BehaviorTracking Role = "behavior_tracking"
	EyeCamJSON       Role = "eye_cam_json"
	FaceCamJSON      Role = "face_cam_json"
	BehCamJSON       Role = "beh_cam_json"
)

var canonicalRoles = []Role{
	EyeTracking,
	FaceTracking,
	BehaviorTracking,
	EyeCamJSON,
	FaceCamJSON,
	BehCamJSON,
}

// Roles returns every role in canonical order.
func Roles() []Role {
	out := make([]Role, len(canonicalRoles))
	copy(out, canonicalRoles)
	return out
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range canonicalRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// rule assigns role to files with the given extension whose name contains any cue.
type rule struct {
	ext  string
	cues []string
	role Role
}

// rules is ordered by priority: when a name carries several cues the first
// matching rule wins, so behavior beats face and face beats eye.
var rules = []rule{
	{ext: ".mp4", cues: []string{"side", "behavior"}, role: BehaviorTracking},
	{ext: ".mp4", cues: []string{"face"}, role: FaceTracking},
	{ext: ".mp4", cues: []string{"eye"}, role: EyeTracking},
	{ext: ".json", cues: []string{"side", "behavior"}, role: BehCamJSON},
	{ext: ".json", cues: []string{"face"}, role: FaceCamJSON},
	{ext: ".json", cues: []string{"eye"}, role: EyeCamJSON},
}

func candidateExtension(ext string) bool {
	for _, r := range rules {
		if r.ext == ext {
			return true
		}
	}
	return false
}
