package records

// Task is a scheduled breeding step between one or two strains.
//
// ID is assigned by the store and is never read from import files.
type Task struct {
	ID        int64   `csv:"-" json:"id"`
	DueDate   *string `csv:"due_date" json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Action    string  `csv:"action" json:"action" validate:"required,oneof=Cross SelfCross Freeze Thaw Pcr"`
	Strain1   string  `csv:"strain1" json:"strain1" validate:"required"`
	Strain2   *string `csv:"strain2" json:"strain2"`
	Result    *string `csv:"result" json:"result"`
	Notes     *string `csv:"notes" json:"notes"`
	Completed bool    `csv:"completed" json:"completed"`
}

// TaskField is a filterable task column.
type TaskField int

const (
	TaskID TaskField = iota
	TaskDueDate
	TaskAction
	TaskStrain1
	TaskStrain2
	TaskResult
	TaskNotes
	TaskCompleted
	// TaskDate is an alias of TaskDueDate.
	TaskDate
	taskFieldCount
)

// Column returns the physical column of f.
func (f TaskField) Column() string {
	switch f {
	case TaskID:
		return "id"
	case TaskDueDate, TaskDate:
		return "due_date"
	case TaskAction:
		return "action"
	case TaskStrain1:
		return "strain1"
	case TaskStrain2:
		return "strain2"
	case TaskResult:
		return "result"
	case TaskNotes:
		return "notes"
	case TaskCompleted:
		return "completed"
	}
	panic(unknownField("task", int(f)))
}

// String returns the external name of f.
func (f TaskField) String() string {
	switch f {
	case TaskID:
		return "Id"
	case TaskDueDate:
		return "DueDate"
	case TaskAction:
		return "Action"
	case TaskStrain1:
		return "Strain1"
	case TaskStrain2:
		return "Strain2"
	case TaskResult:
		return "Result"
	case TaskNotes:
		return "Notes"
	case TaskCompleted:
		return "Completed"
	case TaskDate:
		return "Date"
	}
	return unknownField("task", int(f))
}

// ParseTaskField resolves an external task field name.
func ParseTaskField(name string) (TaskField, error) {
	return parseField("task", name, taskFieldCount)
}

// TaskFieldNames lists the external task field names.
func TaskFieldNames() []string { return fieldNames(taskFieldCount) }
