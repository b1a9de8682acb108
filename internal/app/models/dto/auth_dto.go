package dto

import "github.com/sapatil2212/edutechunite-sub005/internal/app/models"

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@school.edu"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresIn   int          `json:"expiresIn" example:"3600"`
	User        *models.User `json:"user"`
}
