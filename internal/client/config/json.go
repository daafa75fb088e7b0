package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mlipchinski/authkeeper/internal/flagx"
	"github.com/mlipchinski/authkeeper/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	DatabaseFile   string         `json:"database_file"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.ServerBaseURL = c.ServerBaseURL
	config.DatabaseFile = c.DatabaseFile
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
}
