package sequence

// #region imports
import (
	"github.com/danielpatrickdp/loopcap/internal/compass"
)

// #endregion

// #region hand-state

// HandState is one actor's movement within a beat.
type HandState struct {
	StartLoc   compass.Location   `json:"start_loc"`
	EndLoc     compass.Location   `json:"end_loc"`
	Motion     compass.MotionType `json:"motion_type"`
	PropRotDir string             `json:"prop_rot_dir,omitempty"`
}

// Complete reports whether both locations and the motion type are known.
func (h HandState) Complete() bool {
	return h.StartLoc.Valid() && h.EndLoc.Valid() && h.Motion.Valid()
}

// #endregion hand-state

// #region beat

// Beat is one timestep holding the paired hand motions of the blue and red actors.
type Beat struct {
	Index    int       `json:"beat"`
	Letter   string    `json:"letter,omitempty"`
	StartPos string    `json:"start_pos"`
	EndPos   string    `json:"end_pos"`
	Blue     HandState `json:"blue"`
	Red      HandState `json:"red"`
}

// #endregion beat

// #region sequence

// Sequence is the ordered list of motion beats plus the end state of the
// start-position marker, which is only consulted for circularity.
type Sequence struct {
	Name        string `json:"name"`
	Word        string `json:"word,omitempty"`
	StartEndPos string `json:"start_end_pos"`
	Beats       []Beat `json:"beats"`
}

// Len returns the number of motion beats.
func (s Sequence) Len() int {
	return len(s.Beats)
}

// #endregion sequence

// #region raw-entry

// RawAttributes is a hand's attribute block as stored in a sequence file.
type RawAttributes struct {
	MotionType string `json:"motion_type" yaml:"motion_type"`
	StartLoc   string `json:"start_loc" yaml:"start_loc"`
	EndLoc     string `json:"end_loc" yaml:"end_loc"`
	PropRotDir string `json:"prop_rot_dir,omitempty" yaml:"prop_rot_dir,omitempty"`
}

// RawEntry is one element of a stored sequence: a metadata header, the
// start-position marker (beat 0), or a motion beat.
type RawEntry struct {
	Beat                  *int           `json:"beat,omitempty" yaml:"beat,omitempty"`
	Word                  string         `json:"word,omitempty" yaml:"word,omitempty"`
	Letter                string         `json:"letter,omitempty" yaml:"letter,omitempty"`
	StartPos              string         `json:"start_pos,omitempty" yaml:"start_pos,omitempty"`
	EndPos                string         `json:"end_pos,omitempty" yaml:"end_pos,omitempty"`
	SequenceStartPosition string         `json:"sequence_start_position,omitempty" yaml:"sequence_start_position,omitempty"`
	Blue                  *RawAttributes `json:"blue_attributes,omitempty" yaml:"blue_attributes,omitempty"`
	Red                   *RawAttributes `json:"red_attributes,omitempty" yaml:"red_attributes,omitempty"`
}

// #endregion raw-entry
