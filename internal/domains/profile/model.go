package profile

import "conduit-backend/internal/domains/user"

// Profile là public view của một user, nhìn từ góc độ người đang xem
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// FromUser builds the profile of u as seen by a viewer whose follow status is following.
func FromUser(u *user.User, following bool) Profile {
	return Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}
