package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/orcadive/divelog/internal/client/models"
)

// RoleAdministrator is the token role claim value granting the
// administrator (sees-all) scope. Any other value, including absence,
// resolves to an ordinary user. The role claim is the single source of
// truth; there is no email allow-list.
const RoleAdministrator = "admin"

// Claims is the session token payload issued by the backend.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

// JWTVerifier validates HS256 session tokens against a shared secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify parses and validates the token and resolves it into a Session.
func (v *JWTVerifier) Verify(tokenString string) (*models.Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &models.Session{
		UserID:          claims.UserID,
		IsAdministrator: claims.Role == RoleAdministrator,
	}, nil
}

// IssueToken signs a session token. The client only needs this for tests
// and local tooling; production tokens come from the backend.
func IssueToken(userID, role string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
	})
	return token.SignedString(secret)
}
