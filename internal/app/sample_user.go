package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/samvad-hq/jsonplaceholder-client/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadSampleUser returns the user created at the start of every run. An
// empty path yields domain.SampleUser; otherwise the file is decoded as
// YAML, which also accepts JSON.
func LoadSampleUser(path string) (domain.User, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.SampleUser(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.User{}, fmt.Errorf("read sample user file: %w", err)
	}

	var user domain.User
	if err := yaml.Unmarshal(raw, &user); err != nil {
		return domain.User{}, fmt.Errorf("decode sample user file: %w", err)
	}
	if strings.TrimSpace(user.Username) == "" {
		return domain.User{}, fmt.Errorf("sample user file %s: username is required", path)
	}
	return user, nil
}
