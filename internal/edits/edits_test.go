package edits

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.WhiteBalanceTemp != 5500 {
		t.Errorf("WhiteBalanceTemp: got %v, want 5500", d.WhiteBalanceTemp)
	}
	if d.SharpeningRadius != 1 {
		t.Errorf("SharpeningRadius: got %v, want 1", d.SharpeningRadius)
	}
	if d.Flag != FlagNone || d.Rotation != Rotate0 {
		t.Errorf("enum defaults: got flag=%q rotation=%d", d.Flag, d.Rotation)
	}
	if !d.IsNeutral() {
		t.Error("Default should be neutral")
	}
}

func TestClampRating(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 0}, {0, 0}, {3, 3}, {5, 5}, {6, 5}, {255, 5},
	}
	for _, tt := range tests {
		if got := ClampRating(tt.in); got != tt.want {
			t.Errorf("ClampRating(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseFlag(t *testing.T) {
	tests := map[string]Flag{
		"pick":    FlagPick,
		"PICK":    FlagPick,
		" reject": FlagReject,
		"none":    FlagNone,
		"":        FlagNone,
		"starred": FlagNone,
	}
	for in, want := range tests {
		if got := ParseFlag(in); got != want {
			t.Errorf("ParseFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in   int
		want Rotation
	}{
		{0, Rotate0}, {90, Rotate90}, {180, Rotate180}, {270, Rotate270},
		{45, Rotate0}, {-90, Rotate0}, {360, Rotate0},
	}
	for _, tt := range tests {
		if got := ParseRotation(tt.in); got != tt.want {
			t.Errorf("ParseRotation(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAdjustments_UnmarshalJSON_Partial(t *testing.T) {
	var a Adjustments
	if err := json.Unmarshal([]byte(`{"exposure": 1.5, "rating": 9}`), &a); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := Default()
	want.Exposure = 1.5
	want.Rating = 5
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("partial decode mismatch (-want +got):\n%s", diff)
	}
}

func TestAdjustments_UnmarshalJSON_InvalidEnums(t *testing.T) {
	var a Adjustments
	data := `{"flag": "favourite", "rotation": 45, "white_balance_temp": 6000}`
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if a.Flag != FlagNone {
		t.Errorf("Flag: got %q, want none", a.Flag)
	}
	if a.Rotation != Rotate0 {
		t.Errorf("Rotation: got %d, want 0", a.Rotation)
	}
	if a.WhiteBalanceTemp != 6000 {
		t.Errorf("WhiteBalanceTemp: got %v, want 6000", a.WhiteBalanceTemp)
	}
}

func TestAdjustments_UnmarshalJSON_NonNumericRotation(t *testing.T) {
	var a Adjustments
	if err := json.Unmarshal([]byte(`{"rotation": "sideways", "flag": 3}`), &a); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if a.Rotation != Rotate0 || a.Flag != FlagNone {
		t.Errorf("got rotation=%d flag=%q, want defaults", a.Rotation, a.Flag)
	}
}

func TestAdjustments_JSONRoundTrip(t *testing.T) {
	a := Default()
	a.Rating = 4
	a.Flag = FlagPick
	a.Rotation = Rotate270
	a.Crop = &CropRect{Left: 0.1, Top: 0.2, Right: 0.9, Bottom: 0.8}
	a.StraightenAngle = -2.5
	a.NoiseReduction = 12

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got Adjustments
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_NonFinite(t *testing.T) {
	a := Default()
	a.Exposure = math.NaN()
	a.WhiteBalanceTemp = math.Inf(1)
	a.Rating = -1
	a.Normalize()

	if a.Exposure != 0 {
		t.Errorf("Exposure: got %v, want 0", a.Exposure)
	}
	if a.WhiteBalanceTemp != DefaultTemperature {
		t.Errorf("WhiteBalanceTemp: got %v, want %v", a.WhiteBalanceTemp, DefaultTemperature)
	}
	if a.Rating != 0 {
		t.Errorf("Rating: got %d, want 0", a.Rating)
	}
}

func TestIsNeutral(t *testing.T) {
	a := Default()
	a.Rating = 3
	a.Rotation = Rotate90
	a.Crop = &CropRect{Right: 1, Bottom: 1}
	if !a.IsNeutral() {
		t.Error("culling and geometry fields should not affect IsNeutral")
	}

	a.Vibrance = 5
	if a.IsNeutral() {
		t.Error("non-zero vibrance should not be neutral")
	}
}

func TestClone(t *testing.T) {
	a := Default()
	a.Crop = &CropRect{Left: 0.1, Top: 0.2, Right: 0.8, Bottom: 0.9}

	b := a.Clone()
	if b.Crop == a.Crop {
		t.Fatal("Clone shares the crop rectangle")
	}
	b.Crop.Left = 0.5
	if a.Crop.Left != 0.1 {
		t.Errorf("mutating the clone changed the original: %+v", a.Crop)
	}

	if Default().Clone().Crop != nil {
		t.Error("Clone of an uncropped state should stay uncropped")
	}
}
