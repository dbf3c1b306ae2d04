package tracker

import "github.com/fyrsmithlabs/taskwave/internal/task"

// GroupProgress summarizes one group.
type GroupProgress struct {
	Group     int  `json:"group"`
	Total     int  `json:"total"`
	Completed int  `json:"completed"`
	Done      bool `json:"done"`
}

// Status summarizes the board.
type Status struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	// CurrentGroup is the lowest group holding an active task, 0 when every
	// task is completed.
	CurrentGroup int             `json:"current_group"`
	Groups       []GroupProgress `json:"groups"`
	Strict       bool            `json:"strict_completion"`
}

func summarize(tasks []task.Task, groups []int) Status {
	st := Status{Total: len(tasks), Groups: make([]GroupProgress, 0, len(groups))}
	idx := make(map[int]int, len(groups))
	for i, g := range groups {
		idx[g] = i
		st.Groups = append(st.Groups, GroupProgress{Group: g})
	}

	for _, t := range tasks {
		gp := &st.Groups[idx[t.Group]]
		gp.Total++
		if t.Completed {
			gp.Completed++
			st.Completed++
		} else {
			st.Active++
		}
	}

	for i := range st.Groups {
		gp := &st.Groups[i]
		gp.Done = gp.Completed == gp.Total
		if !gp.Done && st.CurrentGroup == 0 {
			st.CurrentGroup = gp.Group
		}
	}
	return st
}
