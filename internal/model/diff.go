package model

// Differs reports whether two documents are structurally different: any
// personal-info field, or any of the six entry sequences compared by length
// first and then element by element, in order. Reordering entries counts as
// a difference. The references text is intentionally not part of the
// comparison.
//
// Pure and deterministic; Differs(a, b) == Differs(b, a) and
// Differs(d, d) == false.
func Differs(a, b Document) bool {
	if a.PersonalInfo != b.PersonalInfo {
		return true
	}
	if sequenceDiffers(a.Experience, b.Experience) {
		return true
	}
	if sequenceDiffers(a.Education, b.Education) {
		return true
	}
	if sequenceDiffers(a.Projects, b.Projects) {
		return true
	}
	if sequenceDiffers(a.Achievements, b.Achievements) {
		return true
	}
	if sequenceDiffers(a.Languages, b.Languages) {
		return true
	}
	return sequenceDiffers(a.Skills, b.Skills)
}

// sequenceDiffers short-circuits on length before comparing entries in order.
func sequenceDiffers[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}
