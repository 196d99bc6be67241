package entity

type User struct {
	BaseSimple
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
}
