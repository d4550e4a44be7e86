package recipe

import (
	"errors"
	"testing"

	"food-detection-api/internal/pkg/common"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n[\"ต้มยำ\"]\n```", `["ต้มยำ"]`},
		{"  [\"ข้าวมันไก่\"]  ", `["ข้าวมันไก่"]`},
		{"```[1]```", "[1]"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := StripCodeFence(tt.in); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFood(t *testing.T) {
	guess, err := ParseFood("```json\n[\"ต้มยำ\"]\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if guess.ID != 0 || guess.Name != "ต้มยำ" {
		t.Errorf("unexpected guess %+v", guess)
	}

	guess, err = ParseFood(`["แกงเขียวหวาน", "ข้าว"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if guess.Name != "แกงเขียวหวาน" {
		t.Errorf("expected first element, got %q", guess.Name)
	}
}

func TestParseFood_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{"not json", "ไม่สามารถตรวจภาพที่ไม่ใช่อาหารได้", msgUnableToParseJSON},
		{"truncated", `["ต้มยำ"`, msgUnableToParseJSON},
		{"empty array", "[]", msgInvalidDataFormat},
		{"string", `"ต้มยำ"`, msgInvalidDataFormat},
		{"object", `{"name":"ต้มยำ"}`, msgInvalidDataFormat},
		{"empty name", `[""]`, msgInvalidDataFormat},
		{"number", `[42]`, msgInvalidDataFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFood(tt.raw)
			if !errors.Is(err, common.ErrMalformedOutput) {
				t.Fatalf("expected malformed output, got %v", err)
			}
			if msg := common.AsCustomError(err).Message; msg != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, msg)
			}
		})
	}
}

func TestParseIngredients(t *testing.T) {
	guesses, err := ParseIngredients("```json\n[[\"ข้าว\", \"ไข่\", \"ซีอิ๊ว\"], [\"rice\", \"egg\", \"soy sauce\"]]\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	th := []string{"ข้าว", "ไข่", "ซีอิ๊ว"}
	en := []string{"rice", "egg", "soy sauce"}
	if len(guesses) != len(th) {
		t.Fatalf("expected %d guesses, got %d", len(th), len(guesses))
	}
	for i, g := range guesses {
		if g.Index != i || g.NameTH != th[i] || g.NameEN != en[i] {
			t.Errorf("guess %d = %+v", i, g)
		}
	}
}

func TestParseIngredients_UnableToDetectPassesValidation(t *testing.T) {
	guesses, err := ParseIngredients(`[["ไม่สามารถตรวจจับได้"],["unable to detect"]]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(guesses) != 1 || guesses[0].NameEN != "unable to detect" {
		t.Errorf("unexpected guesses %+v", guesses)
	}
}

func TestParseIngredients_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{"not json", "ข้าว, ไข่", msgUnableToParseJSON},
		{"unequal lengths", `[["ข้าว","ไข่"],["rice"]]`, msgInvalidDataFormat},
		{"single list", `[["ข้าว"]]`, msgInvalidDataFormat},
		{"three lists", `[["ข้าว"],["rice"],["x"]]`, msgInvalidDataFormat},
		{"flat list", `["ข้าว","rice"]`, msgInvalidDataFormat},
		{"non-string name", `[["ข้าว"],[1]]`, msgInvalidDataFormat},
		{"object", `{"th":["ข้าว"],"en":["rice"]}`, msgInvalidDataFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIngredients(tt.raw)
			if !errors.Is(err, common.ErrMalformedOutput) {
				t.Fatalf("expected malformed output, got %v", err)
			}
			if msg := common.AsCustomError(err).Message; msg != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, msg)
			}
		})
	}
}
