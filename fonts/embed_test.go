package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"goregular", "builtin:gobold", "built-in:goregular"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%s) returned no data", name)
		}
	}
	if _, err := Load("builtin:missing"); err == nil {
		t.Fatalf("unknown font should fail")
	}
	if !IsBuiltin("builtin:gobold") || IsBuiltin("fonts/a.otf") {
		t.Fatalf("unexpected IsBuiltin result")
	}
}
