package task

// HasOwnerPrivilege reports whether userID owns list.
func HasOwnerPrivilege(list *TaskList, userID int64) bool {
	return list != nil && list.OwnerID == userID
}

// HasAssigneePrivilege reports whether userID is the current assignee of t.
func HasAssigneePrivilege(t *Task, userID int64) bool {
	return t != nil && t.AssignedTo != nil && *t.AssignedTo == userID
}
