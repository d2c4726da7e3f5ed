package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/openroster/affilscan/internal/core/domain"
)

// Environment variables carrying the contact identity. Regulatory data
// sources require a real name and email on every request.
const (
	EnvUserName  = "SEC_USER_NAME"
	EnvUserEmail = "SEC_USER_EMAIL"
)

// Identity is the contact identity sent with outbound document requests.
type Identity struct {
	Name  string
	Email string
}

// UserAgent renders the identity in the "Name email" form data sources
// expect.
func (id Identity) UserAgent() string {
	return fmt.Sprintf("%s %s", id.Name, id.Email)
}

// LoadIdentity reads the contact identity from a .env file, falling back
// to the process environment. envPath may be empty to load ./.env; a
// missing file is not an error as long as the variables are set.
func LoadIdentity(envPath string) (Identity, error) {
	if envPath == "" {
		envPath = ".env"
	}
	// Values already present in the environment win over the file.
	_ = godotenv.Load(envPath)

	id := Identity{
		Name:  strings.TrimSpace(os.Getenv(EnvUserName)),
		Email: strings.TrimSpace(os.Getenv(EnvUserEmail)),
	}
	if id.Name == "" || id.Email == "" {
		return Identity{}, fmt.Errorf("%w: set %s and %s",
			domain.ErrIdentityRequired, EnvUserName, EnvUserEmail)
	}
	return id, nil
}
