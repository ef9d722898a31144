package telegram

// Access lists the chats allowed to read grading data.
type Access struct {
	AdminID   int64
	ManagerID int64
}

// Allowed reports whether senderID is the admin or the manager.
func (a Access) Allowed(senderID int64) bool {
	if senderID == 0 {
		return false
	}
	return senderID == a.AdminID || senderID == a.ManagerID
}

const unauthorizedMessage = "Error: you are not allowed to use this command."
