package authz

// Action is a request to perform one operation, dispatched through the
// engine's single decision point. Every role or team check in the
// service funnels through these variants instead of per-handler logic.
type Action interface {
	// Name identifies the action for logging and deny messages.
	Name() string
}

// ViewAllProjects lists every project. The only public read.
type ViewAllProjects struct{}

// CreateOrEditProject creates or mutates a project.
type CreateOrEditProject struct{}

// ViewAllTasks lists tasks, narrowed per role by the decision scope.
type ViewAllTasks struct{}

// UpdateTaskStatus moves a task between statuses.
type UpdateTaskStatus struct {
	TaskID string
}

// ViewAllUsers lists every account.
type ViewAllUsers struct{}

// ViewUser reads a single account's details.
type ViewUser struct {
	UserID string
}

// ViewAllTeams lists every team.
type ViewAllTeams struct{}

// UpdateUserRole changes another user's role.
type UpdateUserRole struct {
	UserID string
}

// ViewOwnTeam lists the members of the principal's own team.
type ViewOwnTeam struct{}

// CreateTeam creates a team.
type CreateTeam struct{}

// AssignUserToTeam places a user on a team.
type AssignUserToTeam struct {
	UserID string
}

// AssignTask creates a task bound to a target assignee.
type AssignTask struct {
	TargetUserID string
}

// LogTime records hours against a task for the principal.
type LogTime struct {
	TaskID string
}

func (ViewAllProjects) Name() string     { return "view_all_projects" }
func (CreateOrEditProject) Name() string { return "create_or_edit_project" }
func (ViewAllTasks) Name() string        { return "view_all_tasks" }
func (UpdateTaskStatus) Name() string    { return "update_task_status" }
func (ViewAllUsers) Name() string        { return "view_all_users" }
func (ViewUser) Name() string            { return "view_user" }
func (ViewAllTeams) Name() string        { return "view_all_teams" }
func (UpdateUserRole) Name() string      { return "update_user_role" }
func (ViewOwnTeam) Name() string         { return "view_own_team" }
func (CreateTeam) Name() string          { return "create_team" }
func (AssignUserToTeam) Name() string    { return "assign_user_to_team" }
func (AssignTask) Name() string          { return "assign_task" }
func (LogTime) Name() string             { return "log_time" }
