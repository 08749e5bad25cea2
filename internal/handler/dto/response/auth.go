package response

import "github.com/google/uuid"

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	Name        string    `json:"name"`
}
