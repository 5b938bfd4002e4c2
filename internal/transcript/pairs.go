package transcript

// ScenePairs emits a Pair for every turn by someone other than responder that
// is immediately followed by a responder turn, in turn order.
func ScenePairs(turns []Turn, responder string) []Pair {
	var pairs []Pair
	for i := 0; i+1 < len(turns); i++ {
		cur, next := turns[i], turns[i+1]
		if next.Speaker != responder || cur.Speaker == responder {
			continue
		}
		pairs = append(pairs, Pair{
			PromptSpeaker:   cur.Speaker,
			PromptText:      cur.Text,
			ResponseSpeaker: responder,
			ResponseText:    next.Text,
		})
	}
	return pairs
}

// GeneratePairs concatenates ScenePairs over scenes in order. Repeated
// exchanges are all kept.
func GeneratePairs(scenes [][]Turn, responder string) []Pair {
	var pairs []Pair
	for _, turns := range scenes {
		pairs = append(pairs, ScenePairs(turns, responder)...)
	}
	return pairs
}

// Group buckets pairs by prompt speaker, keeping discovery order inside each
// bucket. Pairs without a prompt speaker are dropped.
func Group(pairs []Pair) map[string][]Pair {
	grouped := make(map[string][]Pair)
	for _, p := range pairs {
		if p.PromptSpeaker == "" {
			continue
		}
		grouped[p.PromptSpeaker] = append(grouped[p.PromptSpeaker], p)
	}
	return grouped
}
