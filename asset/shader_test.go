package asset

import "testing"

func TestShaderStage(t *testing.T) {
	s := NewShader("#version 330\nuniform mat4 mvp;\n#stage vertex\nvoid vs() {}\n  #stage fragment\nvoid fs() {}\n")

	tests := []struct {
		stage string
		want  string
		ok    bool
	}{
		{"vertex", "#version 330\nuniform mat4 mvp;\nvoid vs() {}\n", true},
		{"fragment", "#version 330\nuniform mat4 mvp;\nvoid fs() {}\n", true},
		{"geometry", "", false},
	}
	for _, tt := range tests {
		got, ok := s.Stage(tt.stage)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Stage(%q) = %q, %v; want %q, %v", tt.stage, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBaseTags(t *testing.T) {
	s := NewShader("")
	s.AddTag("lit")
	s.AddTag("lit")
	s.AddTag("opaque")
	if !s.HasTag("lit") || s.HasTag("transparent") {
		t.Error("HasTag misreported")
	}
	tags := s.Tags()
	if len(tags) != 2 {
		t.Fatalf("tags = %v", tags)
	}
	tags[0] = "changed"
	if !s.HasTag("lit") {
		t.Error("Tags returned the internal slice")
	}
}

func TestIsAvailable(t *testing.T) {
	var nilShader *Shader
	if IsAvailable(nil) || IsAvailable(nilShader) {
		t.Error("nil reported available")
	}
	s := NewShader("")
	s.SetAvailable(true)
	if IsAvailable(s) {
		t.Error("unconstructed asset reported available")
	}
}
