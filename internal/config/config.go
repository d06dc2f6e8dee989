package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Query configuration
const (
	MaxQueryRows = 5       // Hard display cap on run-query results
	JobIDPrefix  = "bqro_" // Prefix for client-generated query job IDs
)

// Environment configuration
const (
	DefaultEnvFile = ".env"

	CredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"
	ProjectEnv     = "BQRO_PROJECT"
	VerboseEnv     = "BQRO_VERBOSE"
)

// Config holds everything the session bootstrap needs. It is built once by the
// CLI and passed explicitly; nothing here is read from globals after Load.
type Config struct {
	CredentialsFile string // Service account key path, empty means default credentials
	ProjectID       string // Explicit project, empty means detect from credentials
	EnvFile         string // Dotenv file that was consulted
	Verbose         bool
}

// keys maps viper keys to the environment variables that feed them.
var keys = map[string]string{
	"credentials": CredentialsEnv,
	"project":     ProjectEnv,
	"verbose":     VerboseEnv,
}

// Load resolves configuration with the precedence flag > process environment
// > dotenv file > default. The dotenv file is optional and is parsed without
// touching the process environment. flags may be nil.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	fileValues, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
		if val, ok := fileValues[env]; ok {
			v.SetDefault(key, val)
		}
	}

	if flags != nil {
		for _, name := range []string{"project", "verbose"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	return &Config{
		CredentialsFile: v.GetString("credentials"),
		ProjectID:       v.GetString("project"),
		EnvFile:         envFile,
		Verbose:         v.GetBool("verbose"),
	}, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}
