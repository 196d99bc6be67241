package response

type AuthResponse struct {
	UserID string `json:"user_id"`
}
