package subtitle

// MergeShortCues folds each cue into the running cue while the span from the
// running cue's start to the incoming cue's end is under minDuration. Texts
// are joined with a single space. The input is left untouched.
func MergeShortCues(cues []SentenceCue, minDuration float64) []SentenceCue {
	if len(cues) == 0 {
		return nil
	}

	merged := make([]SentenceCue, 0, len(cues))
	current := cues[0]
	for _, cue := range cues[1:] {
		if cue.End-current.Start < minDuration {
			current.Text += " " + cue.Text
			current.End = cue.End
			continue
		}
		merged = append(merged, current)
		current = cue
	}

	return append(merged, current)
}
