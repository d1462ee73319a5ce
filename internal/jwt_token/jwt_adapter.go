package jwttoken

import (
	authmw "dealchecker/pkg/platform/middleware/auth"
)

// Validator lets the auth middleware validate employee tokens without
// depending on this package's claim type.
type Validator struct {
	service *JWTService
}

func NewValidator(service *JWTService) Validator {
	return Validator{service: service}
}

func (v Validator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	claims, err := v.service.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{
		UserID:      claims.UserID,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}
