package tasks

// Task is a single to-do record.
type Task struct {
	ID        uint32 `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// SeedTasks returns the fixture records loaded into a fresh store at startup.
func SeedTasks() []Task {
	return []Task{
		{ID: 1, Title: "Learn Go", Completed: false},
		{ID: 2, Title: "Build API", Completed: true},
	}
}
