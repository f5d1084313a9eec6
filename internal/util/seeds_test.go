package util

import (
	"reflect"
	"testing"
)

func TestParseSeedSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    []int
		wantErr bool
	}{
		{spec: "42", want: []int{42}},
		{spec: "42,43,44", want: []int{42, 43, 44}},
		{spec: "42-46", want: []int{42, 43, 44, 45, 46}},
		{spec: " 1 , 3-5 ", want: []int{1, 3, 4, 5}},
		{spec: "", wantErr: true},
		{spec: "42,", wantErr: true},
		{spec: "abc", wantErr: true},
		{spec: "5-2", wantErr: true},
		{spec: "1-x", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSeedSpec(tt.spec)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSeedSpec(%q): expected error, got %v", tt.spec, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSeedSpec(%q): unexpected error: %v", tt.spec, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseSeedSpec(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}
