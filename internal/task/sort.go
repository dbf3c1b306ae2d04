package task

import "sort"

// SortByGroupSection orders tasks by (group, section), keeping store order
// for ties. The slice is sorted in place and returned.
func SortByGroupSection(tasks []Task) []Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Group != tasks[j].Group {
			return tasks[i].Group < tasks[j].Group
		}
		return tasks[i].Section < tasks[j].Section
	})
	return tasks
}
