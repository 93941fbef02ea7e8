package manager

// installPlan filters available (ASCII-ascending version names) down to the
// versions Install should run, in ascending order: versions strictly
// greater than current (if any), and no greater than target (if given).
func installPlan(available []string, current string, hasCurrent bool, target string, hasTarget bool) []string {
	plan := make([]string, 0, len(available))

	for _, v := range available {
		if hasCurrent && !(v > current) {
			continue
		}

		if hasTarget && !(v <= target) {
			continue
		}

		plan = append(plan, v)
	}

	return plan
}

// rollbackPlan filters available (ASCII-ascending version names) down to the
// versions Rollback should run, in descending order: versions no greater
// than current (if any), and strictly greater than target (if given).
func rollbackPlan(available []string, current string, hasCurrent bool, target string, hasTarget bool) []string {
	plan := make([]string, 0, len(available))

	for _, v := range available {
		if hasCurrent && !(v <= current) {
			continue
		}

		if hasTarget && !(v > target) {
			continue
		}

		plan = append(plan, v)
	}

	reverseStrings(plan)

	return plan
}

// reverseStrings reverses s in place.
func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
