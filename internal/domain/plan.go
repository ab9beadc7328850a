// internal/domain/plan.go
package domain

import "time"

// PlanLength is the number of days in every plan template.
const PlanLength = 30

// DefaultMotivationalMessage is attached to every day of a freshly created template.
const DefaultMotivationalMessage = "Harakatda baraka!"

// TaskType discriminates meal tasks from exercise tasks.
type TaskType string

const (
	TaskTypeMeal     TaskType = "meal"
	TaskTypeExercise TaskType = "exercise"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	return t == TaskTypeMeal || t == TaskTypeExercise
}

// ReviewStatus tracks the admin review of a meal proof.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Task is one meal or exercise item within a day.
type Task struct {
	ID           string   `bson:"id" json:"id"`
	Title        string   `bson:"title" json:"title"`
	Description  string   `bson:"description" json:"description"`
	Type         TaskType `bson:"type" json:"type"`
	Completed    bool     `bson:"completed" json:"completed"`
	Meta         string   `bson:"meta,omitempty" json:"meta,omitempty"` // calories or duration, e.g. "400 kkal"
	Time         string   `bson:"time,omitempty" json:"time,omitempty"` // scheduled time, "08:00"
	VideoURL     string   `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageURL     string   `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Instructions []string `bson:"instructions,omitempty" json:"instructions,omitempty"`

	// --- Meal proof (set only by the end user) ---
	ProofImage     string       `bson:"proofImage,omitempty" json:"proofImage,omitempty"`
	ProofTimestamp string       `bson:"proofTimestamp,omitempty" json:"proofTimestamp,omitempty"` // "HH:MM"
	Status         ReviewStatus `bson:"status,omitempty" json:"status,omitempty"`
}

// Clone returns a copy of the task that shares no memory with t.
func (t Task) Clone() Task {
	c := t
	if t.Instructions != nil {
		c.Instructions = append([]string(nil), t.Instructions...)
	}
	return c
}

// HasProof reports whether the user attached a proof image.
func (t Task) HasProof() bool {
	return t.ProofImage != ""
}

// DailyPlan is one day of a 30-day plan.
type DailyPlan struct {
	Day                 int    `bson:"day" json:"day"` // 1-based
	Meals               []Task `bson:"meals" json:"meals"`
	Exercises           []Task `bson:"exercises" json:"exercises"`
	VideoURL            string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	MotivationalMessage string `bson:"motivationalMessage,omitempty" json:"motivationalMessage,omitempty"`
	// IsCompleted is the stored flag. It is not recomputed from task state;
	// use DayCompletionCheck for the live value.
	IsCompleted bool `bson:"isCompleted" json:"isCompleted"`
}

// Clone returns a deep copy of the day.
func (d DailyPlan) Clone() DailyPlan {
	c := d
	c.Meals = cloneTasks(d.Meals)
	c.Exercises = cloneTasks(d.Exercises)
	return c
}

// Tasks returns a pointer to the meal or exercise list of the day.
func (d *DailyPlan) Tasks(t TaskType) *[]Task {
	if t == TaskTypeMeal {
		return &d.Meals
	}
	return &d.Exercises
}

// FindTask returns the index of the task with the given id in the list of
// type t, or -1.
func (d *DailyPlan) FindTask(t TaskType, taskID string) int {
	for i, task := range *d.Tasks(t) {
		if task.ID == taskID {
			return i
		}
	}
	return -1
}

// DayCompletionCheck reports whether every meal and every exercise of the day
// is completed. A day without tasks is complete.
func DayCompletionCheck(d DailyPlan) bool {
	for _, m := range d.Meals {
		if !m.Completed {
			return false
		}
	}
	for _, e := range d.Exercises {
		if !e.Completed {
			return false
		}
	}
	return true
}

// DailyProgress returns the share of completed tasks as a percentage (0-100).
// An empty day reports 100.
func DailyProgress(d DailyPlan) int {
	total := len(d.Meals) + len(d.Exercises)
	if total == 0 {
		return 100
	}
	done := 0
	for _, m := range d.Meals {
		if m.Completed {
			done++
		}
	}
	for _, e := range d.Exercises {
		if e.Completed {
			done++
		}
	}
	return (done*100 + total/2) / total
}

// CloneDays deep-copies a day sequence. This is the only way plan content
// moves between a template and a user.
func CloneDays(days []DailyPlan) []DailyPlan {
	if days == nil {
		return nil
	}
	out := make([]DailyPlan, len(days))
	for i, d := range days {
		out[i] = d.Clone()
	}
	return out
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// PlanTemplate is an admin-authored 30-day plan blueprint.
type PlanTemplate struct {
	ID          string      `bson:"_id" json:"id"`
	Name        string      `bson:"name" json:"name"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	Days        []DailyPlan `bson:"days" json:"days"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time   `bson:"updatedAt" json:"updatedAt"`
	Version     int64       `bson:"version" json:"-"`
}

// NewPlanTemplate builds a template with PlanLength empty days.
func NewPlanTemplate(id, name, description string) PlanTemplate {
	days := make([]DailyPlan, PlanLength)
	for i := range days {
		days[i] = DailyPlan{
			Day:                 i + 1,
			Meals:               []Task{},
			Exercises:           []Task{},
			MotivationalMessage: DefaultMotivationalMessage,
		}
	}
	return PlanTemplate{
		ID:          id,
		Name:        name,
		Description: description,
		Days:        days,
	}
}

// Clone returns a deep copy of the template.
func (t PlanTemplate) Clone() PlanTemplate {
	c := t
	c.Days = CloneDays(t.Days)
	return c
}
