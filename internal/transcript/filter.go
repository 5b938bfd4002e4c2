package transcript

// KeepScene reports whether a merged scene can produce pairs for responder:
// it needs at least two turns and the responder must speak in one of them.
func KeepScene(turns []Turn, responder string) bool {
	if len(turns) < 2 {
		return false
	}
	for _, t := range turns {
		if t.Speaker == responder {
			return true
		}
	}
	return false
}

// KeepOnlyAllowed keeps the scenes whose speakers all belong to allowed.
// Rows without a speaker are ignored for the check. An empty allowlist keeps
// nothing, so callers enable this filter only when they have one.
func KeepOnlyAllowed(scenes []Scene, allowed []string) []Scene {
	set := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		set[name] = struct{}{}
	}

	var out []Scene
	for _, sc := range scenes {
		ok := true
		for _, r := range sc {
			if r.Speaker == "" {
				continue
			}
			if _, found := set[r.Speaker]; !found {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, sc)
		}
	}
	return out
}
