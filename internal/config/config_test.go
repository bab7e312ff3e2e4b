package config

import "testing"

func TestNewViperDefaults(t *testing.T) {
	v := NewViper()
	opts, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.WorkingDir != "." {
		t.Fatalf("expected default working dir \".\", got %q", opts.WorkingDir)
	}
	if opts.AllowGoogRequire {
		t.Fatalf("expected AllowGoogRequire to default false")
	}
	if opts.WarningsAsErrors {
		t.Fatalf("expected WarningsAsErrors to default false")
	}
}

func TestLoadOverridesFromViperSet(t *testing.T) {
	v := NewViper()
	v.Set("entry_points", []string{"a.js", "b.js"})
	v.Set("allow_goog_require", true)

	opts, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(opts.EntryPoints) != 2 || opts.EntryPoints[0] != "a.js" {
		t.Fatalf("expected entry points to carry through, got %v", opts.EntryPoints)
	}
	if !opts.AllowGoogRequire {
		t.Fatalf("expected AllowGoogRequire to be overridden true")
	}
}

func TestLoadEmptyWorkingDirDefaultsToDot(t *testing.T) {
	v := NewViper()
	v.Set("working_dir", "")

	opts, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.WorkingDir != "." {
		t.Fatalf("expected working dir to default to \".\", got %q", opts.WorkingDir)
	}
}
