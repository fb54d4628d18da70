package servercfg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gravitl/scimdir/config"
	"github.com/gravitl/scimdir/models"
)

// persistence modes
const (
	// StorePersistence - records live in the configured database
	StorePersistence = "store"
	// FilePersistence - records live in users.json and groups.json
	FilePersistence = "file"
	// MemoryPersistence - records live only in the process
	MemoryPersistence = "memory"
)

// refresh policies
const (
	RefreshOnList = "onlist"
	RefreshManual = "manual"
)

// GetPersistenceMode - gets where directory records are persisted
func GetPersistenceMode() string {
	mode := StorePersistence
	if os.Getenv("PERSISTENCE_MODE") != "" {
		mode = os.Getenv("PERSISTENCE_MODE")
	} else if config.Config.Directory.PersistenceMode != "" {
		mode = config.Config.Directory.PersistenceMode
	}
	mode = strings.ToLower(mode)
	switch mode {
	case StorePersistence, FilePersistence, MemoryPersistence:
		return mode
	}
	return StorePersistence
}

// GetDataDir - directory holding the sqlite database and the json files
func GetDataDir() string {
	dir := "data"
	if os.Getenv("DATA_DIR") != "" {
		dir = os.Getenv("DATA_DIR")
	} else if config.Config.Directory.DataDir != "" {
		dir = config.Config.Directory.DataDir
	}
	return dir
}

// GetUsersFilePath - gets the users file used in file persistence
func GetUsersFilePath() string {
	path := filepath.Join(GetDataDir(), "users.json")
	if os.Getenv("USERS_FILE") != "" {
		path = os.Getenv("USERS_FILE")
	} else if config.Config.Directory.UsersFile != "" {
		path = config.Config.Directory.UsersFile
	}
	return path
}

// GetGroupsFilePath - gets the groups file used in file persistence
func GetGroupsFilePath() string {
	path := filepath.Join(GetDataDir(), "groups.json")
	if os.Getenv("GROUPS_FILE") != "" {
		path = os.Getenv("GROUPS_FILE")
	} else if config.Config.Directory.GroupsFile != "" {
		path = config.Config.Directory.GroupsFile
	}
	return path
}

// GetAppName - gets the app name used in the custom user namespace
func GetAppName() string {
	name := "mysql_app"
	if os.Getenv("APP_NAME") != "" {
		name = os.Getenv("APP_NAME")
	} else if config.Config.Directory.AppName != "" {
		name = config.Config.Directory.AppName
	}
	return name
}

// GetSchemaName - gets the directory schema name used in the custom user namespace
func GetSchemaName() string {
	name := "custom"
	if os.Getenv("UD_SCHEMA_NAME") != "" {
		name = os.Getenv("UD_SCHEMA_NAME")
	} else if config.Config.Directory.SchemaName != "" {
		name = config.Config.Directory.SchemaName
	}
	return name
}

// GetUserNamespace - gets the custom user namespace URN
func GetUserNamespace() string {
	return models.UserNamespace(GetAppName(), GetSchemaName())
}

// GetUserRefreshPolicy - whether listing users repopulates the user cache, on by default
func GetUserRefreshPolicy() string {
	return refreshPolicy(os.Getenv("USER_REFRESH"), config.Config.Directory.UserRefresh, RefreshOnList)
}

// GetGroupRefreshPolicy - whether listing groups repopulates the group cache, off by default
func GetGroupRefreshPolicy() string {
	return refreshPolicy(os.Getenv("GROUP_REFRESH"), config.Config.Directory.GroupRefresh, RefreshManual)
}

func refreshPolicy(env, conf, fallback string) string {
	policy := fallback
	if env != "" {
		policy = env
	} else if conf != "" {
		policy = conf
	}
	policy = strings.ToLower(policy)
	if policy != RefreshOnList && policy != RefreshManual {
		return fallback
	}
	return policy
}

// SeedSampleDirectory - whether an empty directory gets the sample users and groups.
// Defaults to on outside of store persistence.
func SeedSampleDirectory() bool {
	seed := GetPersistenceMode() != StorePersistence
	if os.Getenv("SEED_SAMPLE_DIRECTORY") != "" {
		seed = os.Getenv("SEED_SAMPLE_DIRECTORY") == "on" || os.Getenv("SEED_SAMPLE_DIRECTORY") == "true"
	} else if config.Config.Directory.SeedSample != "" {
		seed = config.Config.Directory.SeedSample == "on" || config.Config.Directory.SeedSample == "true"
	}
	return seed
}
