package models

// Identity is what /api/auth/verify returns for a valid token
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Empty reports whether no identity has been populated.
func (i Identity) Empty() bool {
	return i.Username == "" && i.Email == ""
}

// UserProfile is the user returned by the profile endpoints
type UserProfile struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mobile    string `json:"mobile"`
	Address   string `json:"address"`
}

// ProfileUpdate is the body of PUT /api/updateuserdetails
type ProfileUpdate struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Mobile    string `json:"mobile" validate:"mobile"`
	Address   string `json:"address" validate:"required"`
}

// UserResponse wraps the profile endpoints' payload
type UserResponse struct {
	User    UserProfile `json:"user"`
	Message string      `json:"message,omitempty"`
}

// Feedback is the contact form submitted to /api/feedback/addFeedback
type Feedback struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"contactemail"`
	Mobile   string `json:"mobile" validate:"mobile"`
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Username string `json:"username"`
}
