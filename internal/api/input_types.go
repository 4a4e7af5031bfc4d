package api

type registerInput struct {
	Email           string `json:"email" form:"email"`
	Name            string `json:"name" form:"name"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type credentialsInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type clockOutInput struct {
	BreakMinutes int `json:"break_minutes" form:"break_minutes"`
}

type manualSessionInput struct {
	UserID       uint   `json:"user_id" form:"user_id"`
	Start        string `json:"start" form:"start"`
	End          string `json:"end" form:"end"`
	BreakMinutes int    `json:"break_minutes" form:"break_minutes"`
}

type startEntryInput struct {
	TaskID      *uint  `json:"task_id" form:"task_id"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
	Billable    bool   `json:"billable" form:"billable"`
}

type createTaskInput struct {
	Title          string   `json:"title" form:"title"`
	Description    string   `json:"description" form:"description"`
	AssignedToID   *uint    `json:"assigned_to_id" form:"assigned_to_id"`
	Priority       string   `json:"priority" form:"priority"`
	EstimatedHours *float64 `json:"estimated_hours" form:"estimated_hours"`
	DueDate        *string  `json:"due_date" form:"due_date"`
}

// updateTaskInput distinguishes absent fields from zero values with pointers,
// so a PATCH only touches what the client sent.
type updateTaskInput struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	AssignedToID       *uint    `json:"assigned_to_id"`
	Status             *string  `json:"status"`
	Priority           *string  `json:"priority"`
	EstimatedHours     *float64 `json:"estimated_hours"`
	DueDate            *string  `json:"due_date"`
	CompletionComments *string  `json:"completion_comments"`
}

type createWorkerInput struct {
	Email string `json:"email" form:"email"`
	Name  string `json:"name" form:"name"`
}
