package models

// Closed string enums. Values are rejected at the boundary (handler request
// decoding / service construction), not deep in business logic.

// MaterialType classifies what kind of device was brought in.
type MaterialType string

const (
	MaterialLaptop  MaterialType = "laptop"
	MaterialDesktop MaterialType = "desktop"
	MaterialPrinter MaterialType = "printer"
)

func (m MaterialType) Valid() bool {
	switch m {
	case MaterialLaptop, MaterialDesktop, MaterialPrinter:
		return true
	}
	return false
}

// AssignmentStage labels why a job landed on a technician's bench.
type AssignmentStage string

const (
	StageNewCase        AssignmentStage = "New Case"
	StageRepeated       AssignmentStage = "Repeated"
	StageFreeService    AssignmentStage = "Free Service"
	StageFromOutService AssignmentStage = "From Out Service"
	StageRetaken        AssignmentStage = "Retaken"
	StageSwapEngineer   AssignmentStage = "Swap Engineer"
)

func (s AssignmentStage) Valid() bool {
	switch s {
	case StageNewCase, StageRepeated, StageFreeService, StageFromOutService, StageRetaken, StageSwapEngineer:
		return true
	}
	return false
}

// TodoVisibility scopes who sees a todo.
type TodoVisibility string

const (
	TodoVisibilityPersonal TodoVisibility = "personal"
	TodoVisibilityWork     TodoVisibility = "work"
	TodoVisibilityPublic   TodoVisibility = "public"
)

func (v TodoVisibility) Valid() bool {
	switch v {
	case TodoVisibilityPersonal, TodoVisibilityWork, TodoVisibilityPublic:
		return true
	}
	return false
}

// TodoPriority ranks a todo.
type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "low"
	TodoPriorityMedium TodoPriority = "medium"
	TodoPriorityHigh   TodoPriority = "high"
)

func (p TodoPriority) Valid() bool {
	switch p {
	case TodoPriorityLow, TodoPriorityMedium, TodoPriorityHigh:
		return true
	}
	return false
}
