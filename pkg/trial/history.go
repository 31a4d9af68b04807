package trial

// History is the full metrics series of a trial in reported order.
type History []Snapshot

// Latest returns the last reported snapshot, or an empty one for an empty
// history.
func (h History) Latest() Snapshot {
	if len(h) == 0 {
		return Snapshot{}
	}

	return h[len(h)-1]
}

// Columns returns every key appearing anywhere in the series, in order of
// first appearance across rows.
func (h History) Columns() []string {
	var cols []string

	seen := make(map[string]bool)

	for _, snap := range h {
		for _, k := range snap.keys {
			if seen[k] {
				continue
			}

			seen[k] = true

			cols = append(cols, k)
		}
	}

	return cols
}
