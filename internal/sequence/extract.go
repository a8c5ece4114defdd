package sequence

// #region imports
import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/loopcap/internal/compass"
)

// #endregion

// #region extract

// Extract normalizes raw entries into a Sequence. The metadata header and the
// start-position marker are consumed; every other entry becomes a Beat in its
// original order. Malformed fields are carried as unknown values and never
// cause extraction to fail.
func Extract(name string, entries []RawEntry) Sequence {
	seq := Sequence{
		Name:  name,
		Beats: make([]Beat, 0, len(entries)),
	}

	for i := range entries {
		e := &entries[i]
		switch {
		case isMetadata(e):
			if seq.Word == "" {
				seq.Word = strings.TrimSpace(e.Word)
			}
		case isStartMarker(e):
			seq.StartEndPos = normalize(e.EndPos)
		default:
			seq.Beats = append(seq.Beats, toBeat(e, len(seq.Beats)+1))
		}
	}

	return seq
}

// ExtractJSON decodes a JSON array of raw entries and extracts it.
func ExtractJSON(name string, data []byte) (Sequence, error) {
	var entries []RawEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return Sequence{}, fmt.Errorf("decode sequence %s: %w", name, err)
	}
	return Extract(name, entries), nil
}

// #endregion extract

// #region helpers

// isMetadata reports a header entry: a word and nothing that belongs to a beat.
func isMetadata(e *RawEntry) bool {
	if e.Word == "" || e.Beat != nil || e.SequenceStartPosition != "" {
		return false
	}
	return e.StartPos == "" && e.EndPos == "" && e.Letter == "" && e.Blue == nil && e.Red == nil
}

func isStartMarker(e *RawEntry) bool {
	if e.SequenceStartPosition != "" {
		return true
	}
	return e.Beat != nil && *e.Beat == 0
}

// toBeat converts a motion entry. fallbackIndex is used when the entry carries no beat number.
func toBeat(e *RawEntry, fallbackIndex int) Beat {
	idx := fallbackIndex
	if e.Beat != nil {
		idx = *e.Beat
	}
	return Beat{
		Index:    idx,
		Letter:   strings.TrimSpace(e.Letter),
		StartPos: normalize(e.StartPos),
		EndPos:   normalize(e.EndPos),
		Blue:     toHand(e.Blue),
		Red:      toHand(e.Red),
	}
}

func toHand(a *RawAttributes) HandState {
	if a == nil {
		return HandState{}
	}
	return HandState{
		StartLoc:   compass.ParseLocation(a.StartLoc),
		EndLoc:     compass.ParseLocation(a.EndLoc),
		Motion:     compass.ParseMotionType(a.MotionType),
		PropRotDir: normalize(a.PropRotDir),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// #endregion helpers
