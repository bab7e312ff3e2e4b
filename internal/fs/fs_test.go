package fs

import "testing"

func TestMockFSReadFile(t *testing.T) {
	mock := MockFS(map[string]string{
		"/src/a.js": "export var a = 1;",
	})

	contents, ok := mock.ReadFile("/src/a.js")
	if !ok || contents != "export var a = 1;" {
		t.Fatalf("expected a.js contents, got %q ok=%v", contents, ok)
	}

	_, ok = mock.ReadFile("/src/missing.js")
	if ok {
		t.Fatalf("expected missing.js to be absent")
	}
}

func TestMockFSReadDirectory(t *testing.T) {
	mock := MockFS(map[string]string{
		"/src/a.js":     "",
		"/src/sub/b.js": "",
	})

	entries := mock.ReadDirectory("/src")
	if _, ok := entries["a.js"]; !ok {
		t.Fatalf("expected a.js in /src listing: %v", entries)
	}
	if e, ok := entries["sub"]; !ok || e.Kind != DirEntry {
		t.Fatalf("expected sub dir entry in /src listing: %v", entries)
	}
}

func TestMockFSPathHelpers(t *testing.T) {
	mock := MockFS(nil)
	if got := mock.Dir("/src/a.js"); got != "/src" {
		t.Fatalf("Dir: got %q", got)
	}
	if got := mock.Base("/src/a.js"); got != "a.js" {
		t.Fatalf("Base: got %q", got)
	}
	if got := mock.Ext("/src/a.js"); got != ".js" {
		t.Fatalf("Ext: got %q", got)
	}
	if got := mock.Join("/src", "./a.js"); got != "/src/a.js" {
		t.Fatalf("Join: got %q", got)
	}
}
