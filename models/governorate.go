package models

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var governorates = []string{
	"بغداد", "البصرة", "نينوى", "أربيل", "الأنبار", "بابل", "ذي قار", "ديالى", "دهوك",
	"كربلاء", "كركوك", "ميسان", "المثنى", "النجف", "القادسية", "صلاح الدين", "السليمانية", "واسط", "حلبجة",
}

// Governorates returns the fixed list in display order.
func Governorates() []string {
	out := make([]string, len(governorates))
	copy(out, governorates)
	return out
}

// NormalizeGovernorate returns the canonical spelling of name and whether it
// is one of the known governorates.
func NormalizeGovernorate(name string) (string, bool) {
	name = norm.NFC.String(strings.TrimSpace(name))
	for _, g := range governorates {
		if norm.NFC.String(g) == name {
			return g, true
		}
	}
	return "", false
}
