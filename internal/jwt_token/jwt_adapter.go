package jwttoken

import (
	authmw "covenant/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims converts token claims to the transport middleware shape.
func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		Did: claims.Did,
		JTI: claims.ID,
	}
}

// JWTServiceAdapter lets the auth middleware consume JWTService without
// importing this package's claim type.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
