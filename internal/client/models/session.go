package models

// Session is the signed-in identity. The auth store is its only owner.
type Session struct {
	UserID      string
	DisplayName string
	Email       string
	Token       string
}

// User is the profile returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AuthState is the client view of the signed-in user.
type AuthState struct {
	Session   *Session
	Loading   bool
	LastError string
}

func (s AuthState) Authenticated() bool {
	return s.Session != nil
}

// Clone returns a copy that shares no memory with s.
func (s AuthState) Clone() AuthState {
	out := s
	if s.Session != nil {
		c := *s.Session
		out.Session = &c
	}
	return out
}
