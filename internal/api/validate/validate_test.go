package validate

import "testing"

func TestAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
		want    string
	}{
		{"valid", "5.50", false, "5.5"},
		{"zero", "0", true, ""},
		{"negative", "-3", true, ""},
		{"not a number", "abc", true, ""},
		{"empty", "", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ferr := Amount("amount", tt.in)
			if (ferr != nil) != tt.wantErr {
				t.Fatalf("Amount(%q) err = %v, wantErr %v", tt.in, ferr, tt.wantErr)
			}
			if ferr == nil && d.String() != tt.want {
				t.Errorf("Amount(%q) = %s, want %s", tt.in, d, tt.want)
			}
		})
	}
}

func TestNonNegative(t *testing.T) {
	if _, ferr := NonNegative("rate", "0"); ferr != nil {
		t.Errorf("zero should be allowed: %v", ferr)
	}
	if _, ferr := NonNegative("rate", "-1"); ferr == nil {
		t.Error("negative should be rejected")
	}
}

func TestErrs(t *testing.T) {
	e := Errs{
		{Field: "amount", Msg: "must be > 0"},
		{Field: "description", Msg: "required"},
	}
	want := "amount: must be > 0; description: required"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}
