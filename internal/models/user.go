package models

import "fmt"

type User struct {
	Username string `json:"username"`
}

func (u *User) String() string {
	return fmt.Sprintf("User: %s", u.Username)
}
