package dto

import "github.com/go-playground/validator/v10"

// Validate is the shared request validator.
var Validate = validator.New()

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Redis     string `json:"redis"`
	Reports   int    `json:"reports_loaded"`
}
