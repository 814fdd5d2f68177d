package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite el token opaco que identifica a un usuario.
// Lo implementa el mismo adapter que verifica (jwtauth), pero los
// handlers de auth solo dependen de esta interfaz.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
