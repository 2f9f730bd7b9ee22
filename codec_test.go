package objref

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestHandleWriteRead(t *testing.T) {
	h := NewHandle()
	var buf bytes.Buffer
	if err := WriteHandle(&buf, h); err != nil {
		t.Fatalf("WriteHandle: %v", err)
	}
	if buf.Len() != HandleSize {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), HandleSize)
	}
	got, err := ReadHandle(&buf)
	if err != nil {
		t.Fatalf("ReadHandle: %v", err)
	}
	if got != h {
		t.Errorf("read %s, want %s", got, h)
	}
}

func TestReadHandleShort(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"partial", make([]byte, HandleSize-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHandle(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrShortHandle) {
				t.Errorf("err = %v, want ErrShortHandle", err)
			}
		})
	}
}

func TestWeakBinaryMarshal(t *testing.T) {
	r := initGlobal(t)
	p := &widget{}
	mustConstruct(t, r, p)

	data, err := WeakFrom(p).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != HandleSize {
		t.Fatalf("encoded %d bytes, want %d", len(data), HandleSize)
	}

	var w Weak[*widget]
	if err := w.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if w.Ptr() != p {
		t.Error("decoded weak reference does not resolve")
	}
	if err := w.UnmarshalBinary(data[:3]); !errors.Is(err, ErrShortHandle) {
		t.Errorf("short input: err = %v, want ErrShortHandle", err)
	}
}

// savedScene mirrors how an object graph lands in a JSON file.
type savedScene struct {
	Camera Weak[*widget] `json:"camera"`
	Sky    Ref[*widget]  `json:"sky"`
	None   Weak[*widget] `json:"none"`
}

func TestReferenceJSONLoadBeforeTargets(t *testing.T) {
	initGlobal(t)
	camera, sky := NewHandle(), NewHandle()
	doc := `{"camera":"` + camera.String() + `","sky":"` + sky.String() + `","none":""}`

	// References are decoded before the objects they name are loaded.
	var s savedScene
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.Camera.IsValid() || s.Sky.IsValid() {
		t.Fatal("references valid before their targets load")
	}
	if !s.None.IsEmpty() {
		t.Error("empty string did not decode to the empty reference")
	}

	cam, skyObj := &widget{}, &widget{}
	if err := ConstructAt(cam, camera); err != nil {
		t.Fatal(err)
	}
	if err := ConstructAt(skyObj, sky); err != nil {
		t.Fatal(err)
	}
	if s.Camera.Ptr() != cam || s.Sky.Ptr() != skyObj {
		t.Fatal("decoded references do not resolve after load")
	}
	if Global().DestroyObject(sky, false) {
		t.Error("decoded owning reference did not keep its target alive")
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != doc {
		t.Errorf("re-encoded %s, want %s", out, doc)
	}

	s.Sky.Release()
	if skyObj.IsAlive() {
		t.Error("target alive after its decoded owner released")
	}
}

func TestReferenceUnmarshalTextInvalid(t *testing.T) {
	initGlobal(t)
	var w Weak[*widget]
	if err := w.UnmarshalText([]byte("not-a-handle")); err == nil {
		t.Error("expected error for malformed handle")
	}
	var ref Ref[*widget]
	if err := ref.UnmarshalText([]byte("not-a-handle")); err == nil {
		t.Error("expected error for malformed handle")
	}
}
