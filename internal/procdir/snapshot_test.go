package procdir

import "testing"

func TestProcessID_Valid(t *testing.T) {
	tests := []struct {
		id   ProcessID
		want bool
	}{
		{"1", true},
		{"42", true},
		{"4194304", true},
		{"0", false},
		{"", false},
		{"self", false},
		{"-1", false},
		{"+1", false},
		{"12a", false},
		{"99999999999999999999999", false},
	}

	for _, tt := range tests {
		if got := tt.id.Valid(); got != tt.want {
			t.Errorf("ProcessID(%q).Valid() = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestProcessID_Inode(t *testing.T) {
	if got := ProcessID("1").Inode(); got != 2 {
		t.Errorf("Inode(1) = %d, want 2", got)
	}
	if got := ProcessID("self").Inode(); got != 0 {
		t.Errorf("Inode(self) = %d, want 0", got)
	}
}

func TestClassify(t *testing.T) {
	snapshot := NewSnapshot([]ProcessID{"1", "2", "42"})

	tests := []struct {
		name string
		path string
		want Classification
	}{
		{name: "root", path: "/", want: Classification{Kind: Root}},
		{name: "process", path: "/42", want: Classification{Kind: Process, ID: "42"}},
		{name: "first process", path: "/1", want: Classification{Kind: Process, ID: "1"}},
		{name: "unknown process", path: "/999", want: Classification{Kind: Invalid}},
		{name: "non numeric", path: "/self", want: Classification{Kind: Invalid}},
		{name: "nested", path: "/42/status", want: Classification{Kind: Invalid}},
		{name: "trailing slash", path: "/42/", want: Classification{Kind: Invalid}},
		{name: "empty", path: "", want: Classification{Kind: Invalid}},
		{name: "prefix only", path: "/4", want: Classification{Kind: Invalid}},
		{name: "relative", path: "42", want: Classification{Kind: Invalid}},
		{name: "double separator", path: "//42", want: Classification{Kind: Invalid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.path, snapshot); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassify_EmptySnapshot(t *testing.T) {
	var snapshot Snapshot

	if got := Classify("/", snapshot).Kind; got != Root {
		t.Errorf("Classify(/) kind = %v, want root", got)
	}
	if got := Classify("/1", snapshot).Kind; got != Invalid {
		t.Errorf("Classify(/1) kind = %v, want invalid", got)
	}
}

func TestSnapshot_IDsIsCopy(t *testing.T) {
	snapshot := NewSnapshot([]ProcessID{"1", "2"})
	ids := snapshot.IDs()
	ids[0] = "99"

	if !snapshot.Contains("1") || snapshot.IDs()[0] != "1" {
		t.Error("mutating IDs() result must not change the snapshot")
	}
}

func TestKind_String(t *testing.T) {
	if Root.String() != "root" || Process.String() != "process" || Invalid.String() != "invalid" {
		t.Error("unexpected Kind strings")
	}
}
