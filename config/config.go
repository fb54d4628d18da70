// Environment file for getting variables
// Reads from the environments/<SCIM_ENV>.yaml file by default
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// setting dev by default
func getEnv() string {
	env := os.Getenv("SCIM_ENV")
	if len(env) == 0 {
		return "dev"
	}
	return env
}

// Config : application config stored as global variable
var Config *EnvironmentConfig = &EnvironmentConfig{}

// EnvironmentConfig - environment conf struct
type EnvironmentConfig struct {
	Server    ServerConfig    `yaml:"server"`
	SQL       SQLConfig       `yaml:"sql"`
	Directory DirectoryConfig `yaml:"directory"`
}

// ServerConfig - server conf struct
type ServerConfig struct {
	APIHost             string `yaml:"apihost"`
	APIPort             string `yaml:"apiport"`
	Broker              string `yaml:"broker"`
	MasterKey           string `yaml:"masterkey"`
	AllowedOrigin       string `yaml:"allowedorigin"`
	SQLConn             string `yaml:"sqlconn"`
	Database            string `yaml:"database"`
	MemcachedAddress    string `yaml:"memcachedaddress"`
	Verbosity           int32  `yaml:"verbosity"`
	MQUserName          string `yaml:"mqusername"`
	MQPassword          string `yaml:"mqpassword"`
	Environment         string `yaml:"environment"`
	JwtValidityDuration int    `yaml:"jwt_validity_duration"`
}

// SQLConfig - Generic SQL Config
type SQLConfig struct {
	Host     string `yaml:"host"`
	Port     int32  `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
	SSLMode  string `yaml:"sslmode"`
}

// DirectoryConfig - where the directory lives and how its caches behave
type DirectoryConfig struct {
	AppName         string `yaml:"appname"`
	SchemaName      string `yaml:"schemaname"`
	PersistenceMode string `yaml:"persistencemode"`
	DataDir         string `yaml:"datadir"`
	UsersFile       string `yaml:"usersfile"`
	GroupsFile      string `yaml:"groupsfile"`
	UserRefresh     string `yaml:"userrefresh"`
	GroupRefresh    string `yaml:"grouprefresh"`
	SeedSample      string `yaml:"seedsample"`
}

// ReadConfig - reads in the env file
func ReadConfig(absolutePath string) (*EnvironmentConfig, error) {
	if len(absolutePath) == 0 {
		absolutePath = fmt.Sprintf("environments/%s.yaml", getEnv())
	}
	f, err := os.Open(absolutePath)
	var cfg EnvironmentConfig
	if err != nil {
		return &cfg, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return &cfg, fmt.Errorf("could not decode %s: %w", absolutePath, err)
	}
	return &cfg, nil
}
