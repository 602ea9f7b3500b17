package segment

import "fmt"

// RoleTemplate builds the Public Forum speaking order for the side that
// speaks first: sides alternate, each fielding two speakers.
func RoleTemplate(first, second string) []string {
	return []string{
		fmt.Sprintf("%s 1st Speaker", first),
		fmt.Sprintf("%s 1st Speaker", second),
		fmt.Sprintf("%s 2nd Speaker", first),
		fmt.Sprintf("%s 2nd Speaker", second),
	}
}

// AssignRoles walks selected intervals in start order, records each new
// speaker in order of first appearance up to expected participants, and maps
// them positionally onto the role template. Speakers beyond the expected
// count stay unassigned (absent from the map) and are excluded from the
// report rather than silently merged into another role.
func AssignRoles(selected []Interval, roles []string, expected int) map[string]string {
	var appearance []string
	seen := map[string]bool{}
	for _, iv := range selected {
		if seen[iv.Speaker] {
			continue
		}
		seen[iv.Speaker] = true
		appearance = append(appearance, iv.Speaker)
		if len(appearance) >= expected {
			break
		}
	}

	out := map[string]string{}
	for i, sp := range appearance {
		if i < len(roles) {
			out[sp] = roles[i]
		}
	}
	return out
}
