package servercfg

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gravitl/scimdir/config"
)

var (
	// Version - version of the connector, set at build time
	Version = "dev"
)

// SetVersion - set version of the connector
func SetVersion(v string) {
	Version = v
}

// GetVersion - version of the connector
func GetVersion() string {
	return Version
}

// GetServerConfig - gets the server config into memory from file or env
func GetServerConfig() config.ServerConfig {
	var cfg config.ServerConfig
	cfg.APIHost = GetAPIHost()
	cfg.APIPort = GetAPIPort()
	cfg.MasterKey = "(hidden)"
	cfg.AllowedOrigin = GetAllowedOrigin()
	cfg.Database = GetDB()
	cfg.Verbosity = GetVerbosity()
	cfg.Environment = GetEnvironment()
	broker, _ := GetMessageQueueEndpoint()
	cfg.Broker = broker
	return cfg
}

// GetJwtValidityDuration - returns the JWT validity duration
func GetJwtValidityDuration() time.Duration {
	var defaultDuration = time.Duration(24) * time.Hour
	if os.Getenv("JWT_VALIDITY_DURATION") != "" {
		t, err := strconv.Atoi(os.Getenv("JWT_VALIDITY_DURATION"))
		if err != nil {
			return defaultDuration
		}
		return time.Duration(t) * time.Second
	} else if config.Config.Server.JwtValidityDuration > 0 {
		return time.Duration(config.Config.Server.JwtValidityDuration) * time.Second
	}
	return defaultDuration
}

// GetDB - gets the database type
func GetDB() string {
	database := "sqlite"
	if os.Getenv("DATABASE") != "" {
		database = os.Getenv("DATABASE")
	} else if config.Config.Server.Database != "" {
		database = config.Config.Server.Database
	}
	return database
}

// GetAPIHost - gets the api host
func GetAPIHost() string {
	serverhost := "0.0.0.0"
	if os.Getenv("SERVER_HTTP_HOST") != "" {
		serverhost = os.Getenv("SERVER_HTTP_HOST")
	} else if config.Config.Server.APIHost != "" {
		serverhost = config.Config.Server.APIHost
	}
	return serverhost
}

// GetAPIPort - gets the api port
func GetAPIPort() string {
	apiport := "8081"
	if os.Getenv("API_PORT") != "" {
		apiport = os.Getenv("API_PORT")
	} else if config.Config.Server.APIPort != "" {
		apiport = config.Config.Server.APIPort
	}
	return apiport
}

// GetMessageQueueEndpoint - gets the message queue endpoint, empty when events are off
func GetMessageQueueEndpoint() (string, bool) {
	host := ""
	if os.Getenv("BROKER_ENDPOINT") != "" {
		host = os.Getenv("BROKER_ENDPOINT")
	} else if config.Config.Server.Broker != "" {
		host = config.Config.Server.Broker
	}
	return host, strings.Contains(host, "wss") || strings.Contains(host, "ssl") || strings.Contains(host, "mqtts")
}

// GetMasterKey - gets the configured master key of server
func GetMasterKey() string {
	key := ""
	if os.Getenv("MASTER_KEY") != "" {
		key = os.Getenv("MASTER_KEY")
	} else if config.Config.Server.MasterKey != "" {
		key = config.Config.Server.MasterKey
	}
	return key
}

// GetAllowedOrigin - get the allowed origin
func GetAllowedOrigin() string {
	allowedorigin := "*"
	if os.Getenv("CORS_ALLOWED_ORIGIN") != "" {
		allowedorigin = os.Getenv("CORS_ALLOWED_ORIGIN")
	} else if config.Config.Server.AllowedOrigin != "" {
		allowedorigin = config.Config.Server.AllowedOrigin
	}
	return allowedorigin
}

// GetVerbosity - get logger verbose level
func GetVerbosity() int32 {
	var verbosity = 0
	var err error
	if os.Getenv("VERBOSITY") != "" {
		verbosity, err = strconv.Atoi(os.Getenv("VERBOSITY"))
		if err != nil {
			verbosity = 0
		}
	} else if config.Config.Server.Verbosity != 0 {
		verbosity = int(config.Config.Server.Verbosity)
	}
	if verbosity < 0 || verbosity > 4 {
		verbosity = 0
	}
	return int32(verbosity)
}

// GetMqPassword - fetches the MQ password
func GetMqPassword() string {
	password := ""
	if os.Getenv("MQ_PASSWORD") != "" {
		password = os.Getenv("MQ_PASSWORD")
	} else if config.Config.Server.MQPassword != "" {
		password = config.Config.Server.MQPassword
	}
	return password
}

// GetMqUserName - fetches the MQ username
func GetMqUserName() string {
	username := ""
	if os.Getenv("MQ_USERNAME") != "" {
		username = os.Getenv("MQ_USERNAME")
	} else if config.Config.Server.MQUserName != "" {
		username = config.Config.Server.MQUserName
	}
	return username
}

// GetEnvironment - returns the environment the connector runs in
func GetEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	if config.Config.Server.Environment != "" {
		return config.Config.Server.Environment
	}
	return ""
}
