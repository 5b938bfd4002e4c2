package transcript

import "testing"

func TestKeepScene(t *testing.T) {
	homer := "Homer Simpson"

	if KeepScene([]Turn{{Speaker: homer, Text: "D'oh!"}}, homer) {
		t.Error("single-turn scene should be dropped")
	}
	if KeepScene([]Turn{{Speaker: "Bart Simpson"}, {Speaker: "Lisa Simpson"}}, homer) {
		t.Error("scene without responder should be dropped")
	}
	if !KeepScene([]Turn{{Speaker: homer}, {Speaker: "Bart Simpson"}}, homer) {
		t.Error("two-turn scene with responder should be kept")
	}
}

func TestKeepOnlyAllowed(t *testing.T) {
	allowed := []string{"Homer Simpson", "Bart Simpson"}
	scenes := []Scene{
		{{Speaker: "Homer Simpson", Text: "1"}, {Speaker: "Bart Simpson", Text: "2"}},
		{{Speaker: "Homer Simpson", Text: "1"}, {Speaker: "Moe Szyslak", Text: "2"}},
		{{Speaker: "Bart Simpson", Text: "1"}, {Text: "(laughter)"}},
	}

	kept := KeepOnlyAllowed(scenes, allowed)
	if len(kept) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(kept))
	}
	if kept[1][0].Speaker != "Bart Simpson" {
		t.Errorf("unexpected second scene %+v", kept[1])
	}
}
