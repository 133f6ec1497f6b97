package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/selzcore/mock-ofbiz/internal/models"
)

// DefaultUsers возвращает две встроенные учётные записи, с которыми стартует реестр.
func DefaultUsers() []models.User {
	return []models.User{
		{
			UserLoginID: "admin",
			Password:    "ofbiz",
			FirstName:   "THE",
			LastName:    "ADMINISTRATOR",
			Email:       "ofbiztest@example.com",
			TenantID:    "default",
			Enabled:     true,
		},
		{
			UserLoginID: "demo",
			Password:    "demo",
			FirstName:   "Demo",
			LastName:    "User",
			Email:       "demo@example.com",
			TenantID:    "company",
			Enabled:     true,
		},
	}
}

// seedFile описывает YAML-файл с дополнительными пользователями.
type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	UserLoginID string `yaml:"userLoginId"`
	Password    string `yaml:"password"`
	FirstName   string `yaml:"firstName"`
	LastName    string `yaml:"lastName"`
	Email       string `yaml:"email"`
	TenantID    string `yaml:"tenantId"`
	Enabled     *bool  `yaml:"enabled"`
}

// LoadSeedFile читает пользователей из YAML-файла.
// Если enabled не указан, пользователь считается включённым.
func LoadSeedFile(path string) ([]models.User, error) {
	const op = "storage.memory.LoadSeedFile"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return parseSeed(data)
}

func parseSeed(data []byte) ([]models.User, error) {
	const op = "storage.memory.parseSeed"
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := make([]models.User, 0, len(f.Users))
	for _, su := range f.Users {
		enabled := true
		if su.Enabled != nil {
			enabled = *su.Enabled
		}
		users = append(users, models.User{
			UserLoginID: su.UserLoginID,
			Password:    su.Password,
			FirstName:   su.FirstName,
			LastName:    su.LastName,
			Email:       su.Email,
			TenantID:    su.TenantID,
			Enabled:     enabled,
		})
	}
	return users, nil
}

// NewSeeded создаёт реестр со встроенными пользователями и,
// если путь не пуст, с пользователями из seed-файла после них.
func NewSeeded(seedPath string) (*Registry, error) {
	const op = "storage.memory.NewSeeded"
	users := DefaultUsers()
	if seedPath != "" {
		extra, err := LoadSeedFile(seedPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, extra...)
	}
	r, err := New(users...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}
