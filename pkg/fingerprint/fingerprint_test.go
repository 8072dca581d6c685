package fingerprint

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "trims edges",
			in:   "  Total Amount Due: $120.00  \n",
			want: "total amount due: $120.00",
		},
		{
			name: "collapses interior whitespace",
			in:   "Total\t\tAmount   Due",
			want: "total amount due",
		},
		{
			name: "line endings fold away",
			in:   "line one\r\nline two",
			want: "line one line two",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   " \n\t ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFingerprint_NearDuplicatesCollide(t *testing.T) {
	base := Fingerprint("Total Amount Due: $120.00")

	variants := []string{
		"Total Amount Due: $120.00\n",
		"  total amount due: $120.00",
		"Total\tAmount Due:  $120.00",
		"TOTAL AMOUNT DUE: $120.00\r\n",
	}
	for _, v := range variants {
		if got := Fingerprint(v); got != base {
			t.Errorf("Fingerprint(%q) = %s, want collision with base %s", v, got, base)
		}
	}
}

func TestFingerprint_DistinctContentDiffers(t *testing.T) {
	a := Fingerprint("Total Amount Due: $120.00")
	b := Fingerprint("Total Amount Due: $121.00")
	if a == b {
		t.Error("distinct content produced the same fingerprint")
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	first := Fingerprint("Invoice Summary")
	for i := 0; i < 3; i++ {
		if got := Fingerprint("Invoice Summary"); got != first {
			t.Fatalf("fingerprint not deterministic: %s != %s", got, first)
		}
	}
	if len(first) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(first))
	}
}
