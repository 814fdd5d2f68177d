package auth

// Claims representa la identidad extraída de un token.
type Claims struct {
	UserID string
	Email  string
	Name   string
}
