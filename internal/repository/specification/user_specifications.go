package specification

import "gorm.io/gorm"

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

type ByUsernames struct {
	Usernames []string
}

func (s ByUsernames) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username IN ?", s.Usernames)
}

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}
