package transcript

// Segment splits rows into scenes at boundary rows. Boundaries are consumed,
// and leading, trailing or repeated boundaries never yield an empty scene.
func Segment(rows []Row) []Scene {
	var scenes []Scene
	var current Scene

	for _, r := range rows {
		if r.IsBoundary() {
			if len(current) > 0 {
				scenes = append(scenes, current)
				current = nil
			}
			continue
		}
		current = append(current, r)
	}

	// Flush remaining.
	if len(current) > 0 {
		scenes = append(scenes, current)
	}

	return scenes
}

// DropIncomplete returns the rows of a scene that carry both a speaker and text.
func DropIncomplete(scene Scene) Scene {
	out := make(Scene, 0, len(scene))
	for _, r := range scene {
		if r.Speaker == "" || r.Text == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
