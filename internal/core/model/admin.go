package model

type AdminUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminSession is what the admin panel stores for the signed-in admin.
type AdminSession struct {
	Email     string `json:"email"`
	LastLogin string `json:"lastLogin,omitempty"`
}

func FindAdmin(admins []AdminUser, email string) int {
	for i := range admins {
		if admins[i].Email == email {
			return i
		}
	}
	return -1
}
