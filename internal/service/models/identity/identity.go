package identity

// Identity is the authenticated caller resolved from a session. A nil
// *Identity means the request carried no valid session.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
