package goals

import "time"

const (
	// StatusInProgress marks a goal that has been created and not yet completed.
	StatusInProgress = "in_progress"
	// StatusCompleted marks a goal that has been completed; the transition is one-way.
	StatusCompleted = "completed"
)

// Goal is a shared task record scoped to the chat it was created in.
// JSON tags follow the shape exposed by the monitoring API.
type Goal struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	ChatID      string     `db:"chat_id" json:"chatId"`
	CreatedBy   string     `db:"created_by" json:"createdBy"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt"`
	CompletedBy *string    `db:"completed_by" json:"completedBy"`
}

// Completed reports whether the goal reached its terminal state.
func (g Goal) Completed() bool {
	return g.Status == StatusCompleted
}
