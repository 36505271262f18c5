package auth

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// File is the credentials file. Field layout follows the original
// deployment's config.yaml.
type File struct {
	Credentials   Credentials   `yaml:"credentials"`
	Cookie        Cookie        `yaml:"cookie"`
	Preauthorized Preauthorized `yaml:"preauthorized"`
}

type Credentials struct {
	Usernames map[string]User `yaml:"usernames"`
}

type User struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"` // bcrypt hash
}

type Cookie struct {
	Name       string `yaml:"name"`
	Key        string `yaml:"key"`
	ExpiryDays int    `yaml:"expiry_days"`
}

type Preauthorized struct {
	Emails []string `yaml:"emails"`
}

// LoadFile reads and validates a credentials file.
func LoadFile(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read auth config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parse auth config %s: %w", path, err)
	}

	if f.Cookie.Name == "" {
		return File{}, errors.New("auth config: cookie.name is required")
	}
	if f.Cookie.Key == "" {
		return File{}, errors.New("auth config: cookie.key is required")
	}
	if f.Cookie.ExpiryDays <= 0 {
		f.Cookie.ExpiryDays = 30
	}
	if f.Credentials.Usernames == nil {
		f.Credentials.Usernames = map[string]User{}
	}

	return f, nil
}

// Save writes the credentials file back to disk.
func (f File) Save(path string) error {
	b, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// AddUser registers a user with a freshly hashed password.
func (f *File) AddUser(username, name, email, password string) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	if _, exists := f.Credentials.Usernames[username]; exists {
		return fmt.Errorf("user %s already exists", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if f.Credentials.Usernames == nil {
		f.Credentials.Usernames = map[string]User{}
	}
	f.Credentials.Usernames[username] = User{
		Email:    email,
		Name:     name,
		Password: string(hash),
	}
	return nil
}
