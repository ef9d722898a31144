package learner

// Learner is a user who may have lesson activity.
type Learner struct {
	ID          int64
	Login       string
	DisplayName string
	Email       string
	Role        string
}
