package task

// Onboarding returns the built-in intern onboarding curriculum: ten tasks in
// five groups.
func Onboarding() []Task {
	return []Task{
		{ID: 1, Title: "Initial Setup", Description: "Set up your development environment.", Persona: "Intern", Group: 1, Section: 1},
		{ID: 2, Title: "Basic Introduction", Description: "Get to know the team and the codebase.", Persona: "Intern", Group: 1, Section: 2},
		{ID: 3, Title: "Basic Git", Description: "Learn basic Git commands.", Persona: "Intern", Group: 2, Section: 1},
		{ID: 4, Title: "Git Collaboration", Description: "Collaborate on a Git repository.", Persona: "Intern", Group: 2, Section: 1},
		{ID: 5, Title: "JavaScript Basics", Description: "Learn the basics of JavaScript.", Persona: "Intern", Group: 3, Section: 1},
		{ID: 6, Title: "JavaScript Project", Description: "Build a small JavaScript project.", Persona: "Intern", Group: 3, Section: 2},
		{ID: 7, Title: "API Introduction", Description: "Learn what an API is and how it works.", Persona: "Intern", Group: 4, Section: 1},
		{ID: 8, Title: "API Consumption", Description: "Consume a public API from your project.", Persona: "Intern", Group: 4, Section: 2},
		{ID: 9, Title: "Final Project", Description: "Build the final onboarding project.", Persona: "Intern", Group: 5, Section: 1},
		{ID: 10, Title: "Project Presentation", Description: "Present the final project to the team.", Persona: "Intern", Group: 5, Section: 2},
	}
}
