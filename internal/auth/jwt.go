package auth

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"business-service/internal/rbac"
	pkgvalidator "business-service/pkg/validator"
)

// Claims carries the caller's identity. Role is taken at face value here;
// unknown roles are denied later by the registry.
type Claims struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role"    validate:"required,role"`
	jwt.RegisteredClaims
}

// Identity converts verified claims to the identity guards evaluate.
func (c *Claims) Identity() *rbac.Identity {
	return &rbac.Identity{UserID: c.UserID, Role: rbac.Role(c.Role)}
}

type JWTService struct {
	secret   []byte
	expiry   time.Duration
	validate *validator.Validate
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret:   []byte(secret),
		expiry:   expiry,
		validate: pkgvalidator.New(),
	}
}

func (s *JWTService) Generate(userID uuid.UUID, role rbac.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	if err := s.validate.Struct(&claims); err != nil {
		return "", fmt.Errorf(msgClaimsValidationFailed, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf(msgTokenParseFailed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf(msgInvalidTokenClaims)
	}

	if err := s.validate.Struct(claims); err != nil {
		return nil, fmt.Errorf(msgClaimsValidationFailed, err)
	}

	return claims, nil
}
