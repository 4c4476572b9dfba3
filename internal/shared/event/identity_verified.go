package event

const IdentityVerifiedDestination string = "identity_verified"
const IdentityVerifiedConsumerNotification string = "identity_verified_notification"

type IdentityVerifiedMessage struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	NewUser  bool   `json:"new_user"`
}
