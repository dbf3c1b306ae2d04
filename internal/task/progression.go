package task

// GroupComplete reports whether every task in group g is completed. A group
// with no tasks counts as complete.
func (s *Store) GroupComplete(g int) bool {
	for _, id := range s.order {
		if t := s.byID[id]; t.Group == g && !t.Completed {
			return false
		}
	}
	return true
}

// progress applies the progression rule for group g: once the whole group is
// completed, exactly one task is created for group g+1, section 1.
func (s *Store) progress(g int) (Task, bool) {
	if !s.GroupComplete(g) {
		return Task{}, false
	}
	next := g + 1
	return s.Create(NextGroupTitle(next), NextGroupDescription(next), defaultPersona, next, 1), true
}
